package testutils

import (
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/mockserver"
)

// StartMockBackend runs a mock interview backend on a random local port and
// returns its API base URL. The backend is shut down when the spec ends.
func StartMockBackend() string {
	srv, err := mockserver.NewServer(mockserver.Config{})
	Expect(err).NotTo(HaveOccurred())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())

	go func() {
		defer GinkgoRecover()
		_ = srv.RunWithListener(listener)
	}()
	DeferCleanup(func() {
		Expect(srv.Shutdown()).To(Succeed())
	})

	return "http://" + listener.Addr().String() + "/api"
}
