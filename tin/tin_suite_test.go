package tin

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTin(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tin Suite")
}
