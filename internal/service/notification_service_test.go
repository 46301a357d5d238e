package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nutratech/prf-api/internal/models"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type senderStub struct {
	sent      []sentMail
	failTo    string
	verifyErr error
}

func (s *senderStub) Send(to, subject, htmlBody string) error {
	if s.failTo != "" && to == s.failTo {
		return fmt.Errorf("smtp refused %s", to)
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (s *senderStub) Verify() error { return s.verifyErr }

func testData() models.NotificationData {
	return models.NotificationData{
		PrfID:      "prf-1",
		PrfNo:      "PRF-2026-0001",
		PrfDate:    time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		PreparedBy: "Maria Santos",
		Company:    "NutraTech Biopharma, Inc",
		AppURL:     "http://localhost:3000",
		CheckedBy:  "Juan Cruz",
		ApprovedBy: "Ana Reyes",
		ReceivedBy: "Pedro Lim",
		StockName:  "Sodium Chloride",
	}
}

func TestNotifySkipsRecipientWithoutEmail(t *testing.T) {
	sender := &senderStub{}
	svc := NewNotificationService(sender, nil)

	err := svc.Notify(context.Background(), models.Notification{
		Event: models.EventPrfChecked,
		To:    models.Recipient{Name: "Unassigned Slot"},
		Data:  testData(),
	})
	require.NoError(t, err)
	require.Empty(t, sender.sent)
}

func TestNotifySendsRenderedMail(t *testing.T) {
	sender := &senderStub{}
	svc := NewNotificationService(sender, nil)

	err := svc.Notify(context.Background(), models.Notification{
		Event: models.EventPrfChecked,
		To:    models.Recipient{Email: "maria@nutratech.test", Name: "Maria Santos"},
		Data:  testData(),
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	require.Equal(t, "maria@nutratech.test", sender.sent[0].To)
	require.Contains(t, sender.sent[0].Subject, "PRF-2026-0001")
	require.Contains(t, sender.sent[0].Body, "Maria Santos")
}

func TestSendAllContinuesPastFailures(t *testing.T) {
	sender := &senderStub{failTo: "dead@nutratech.test"}
	svc := NewNotificationService(sender, nil)

	data := testData()
	svc.SendAll(context.Background(), []models.Notification{
		{Event: models.EventPrfChecked, To: models.Recipient{Email: "dead@nutratech.test"}, Data: data},
		{Event: models.EventAssignedToApprove, To: models.Recipient{Email: "ana@nutratech.test"}, Data: data},
	})

	require.Len(t, sender.sent, 1)
	require.Equal(t, "ana@nutratech.test", sender.sent[0].To)
}

func TestSendAllPreservesOrder(t *testing.T) {
	sender := &senderStub{}
	svc := NewNotificationService(sender, nil)

	data := testData()
	svc.SendAll(context.Background(), []models.Notification{
		{Event: models.EventPrfChecked, To: models.Recipient{Email: "maria@nutratech.test"}, Data: data},
		{Event: models.EventAssignedToApprove, To: models.Recipient{Email: "ana@nutratech.test"}, Data: data},
	})

	require.Len(t, sender.sent, 2)
	require.Equal(t, "maria@nutratech.test", sender.sent[0].To)
	require.Equal(t, "ana@nutratech.test", sender.sent[1].To)
}

func TestRenderMailCoversEveryEvent(t *testing.T) {
	events := []models.NotificationEvent{
		models.EventAssignedToCheck,
		models.EventAssignedToApprove,
		models.EventAssignedToReceive,
		models.EventPrfChecked,
		models.EventPrfApproved,
		models.EventPrfReceived,
		models.EventPrfRejected,
		models.EventPrfDelivered,
		models.EventStockAvailable,
		models.EventStockNotAvailable,
	}
	data := testData()
	data.RejectedBy = "Juan Cruz"
	data.RejectionReason = "Budget exceeded"

	for _, event := range events {
		subject, body, err := renderMail(event, data)
		require.NoError(t, err, string(event))
		require.NotEmpty(t, subject, string(event))
		require.NotEmpty(t, body, string(event))
	}

	_, _, err := renderMail(models.NotificationEvent("bogus"), data)
	require.Error(t, err)
}

func TestVerifyDelegatesToSender(t *testing.T) {
	sender := &senderStub{verifyErr: fmt.Errorf("handshake refused")}
	svc := NewNotificationService(sender, nil)
	require.Error(t, svc.Verify())

	sender.verifyErr = nil
	require.NoError(t, svc.Verify())
}
