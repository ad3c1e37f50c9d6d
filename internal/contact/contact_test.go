package contact

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/form"
	"github.com/Zachkp/folio/internal/schedule"
	"github.com/Zachkp/folio/internal/store"
)

var epoch = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func validForm() form.ContactForm {
	return form.ContactForm{Name: "Ada", Email: "ada@example.com", Subject: "Hello", Message: "Nice site"}
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSimulatedSubmitterWaitsForDelay(t *testing.T) {
	t.Parallel()

	clock := schedule.NewFakeClock(epoch)
	sub := &SimulatedSubmitter{Clock: clock, Delay: DefaultDelay}

	errc := make(chan error, 1)
	go func() { errc <- sub.Submit(context.Background(), Submission{}) }()

	clock.BlockUntil(1)
	clock.Advance(DefaultDelay - time.Millisecond)
	select {
	case <-errc:
		t.Fatal("submitted before the delay elapsed")
	default:
	}
	clock.Advance(time.Millisecond)
	require.NoError(t, <-errc)
}

func TestServiceRejectsInvalidForm(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, &SimulatedSubmitter{}, nil, nil)
	_, err := svc.Submit(context.Background(), form.ContactForm{Email: "bad"})

	var ve *form.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, form.MsgEmail, ve.Fields[form.FieldEmail].Message)
}

func TestServiceRecordsDeliveredMessage(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	clock := schedule.NewFakeClock(epoch)
	svc := NewService(st, &SimulatedSubmitter{Clock: clock}, clock, nil)

	rc, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	require.Equal(t, SuccessMessage, rc.Message)

	m, err := st.Message(context.Background(), rc.ID)
	require.NoError(t, err)
	require.Equal(t, store.StatusSent, m.Status)
	require.Equal(t, "Nice site", m.Body)
	require.Equal(t, epoch, m.CreatedAt)
}

func TestServiceMarksRejectedMessageFailed(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	svc := NewService(st, &SimulatedSubmitter{Clock: schedule.NewFakeClock(epoch), Fail: true}, nil, nil)

	_, err := svc.Submit(context.Background(), validForm())
	require.True(t, errors.Is(err, ErrRejected))

	msgs, err := st.Messages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, store.StatusFailed, msgs[0].Status)
}

func TestMailCompose(t *testing.T) {
	t.Parallel()

	cfg := MailConfig{Host: "smtp.example.com", Username: "site@example.com", Password: "x", To: "owner@example.com"}
	require.True(t, cfg.Enabled())
	require.False(t, MailConfig{Host: "smtp.example.com"}.Enabled())

	m := NewMailSubmitter(cfg)
	msg, err := m.Compose(Submission{ID: "abc", Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello there"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "Portfolio Contact: Ada - Hi")
	require.Contains(t, out, "Hello there")
	require.Contains(t, out, "ada@example.com")

	_, err = m.Compose(Submission{Email: "not an address"})
	require.Error(t, err)
}

func TestServiceStoresTrimmedValues(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	clock := schedule.NewFakeClock(epoch)
	svc := NewService(st, &SimulatedSubmitter{Clock: clock}, clock, nil)

	f := validForm()
	f.Name = "  Ada "
	f.Email = " ada@example.com\n"
	rc, err := svc.Submit(context.Background(), f)
	require.NoError(t, err)

	m, err := st.Message(context.Background(), rc.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada", m.Name)
	require.Equal(t, "ada@example.com", m.Email)
}
