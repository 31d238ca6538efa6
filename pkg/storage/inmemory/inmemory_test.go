package inmemory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/rehearse/pkg/storage"
	"github.com/papercomputeco/rehearse/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/rehearse/pkg/utils/test"
)

var _ = Describe("Driver", func() {
	testutils.DriverBehaviors(func() storage.Driver { return inmemory.NewDriver() })

	It("does not alias stored question ids", func() {
		d := inmemory.NewDriver()
		qid := int64(1)
		Expect(d.PutSession(context.Background(), storage.SessionState{SessionID: 1, CurrentQuestionID: &qid})).To(Succeed())
		qid = 2

		st, err := d.GetSession(context.Background(), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(*st.CurrentQuestionID).To(Equal(int64(1)))
	})
})
