package worker

import (
	"context"
	"log/slog"

	"github.com/cradoe/sellerverify/internal/helper"
	"github.com/cradoe/sellerverify/internal/repository"
	"github.com/cradoe/sellerverify/internal/smtp"
	"github.com/cradoe/sellerverify/internal/stream"
)

type Worker struct {
	KafkaStream *stream.KafkaStream
	Users       repository.UserRepository
	Mailer      smtp.MailerInterface
	Helper      *helper.HelperRepository
	Logger      *slog.Logger
	Ctx         context.Context
}

const (
	// reviewNotificationGroupID is used for workers that tell sellers about review decisions
	reviewNotificationGroupID = "verification-reviewed-group"
)

// Our workers typically need the event stream and a way to reach users.
// Worker-specific dependencies can be passed as arguments to the worker.
func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream: wk.KafkaStream,
		Users:       wk.Users,
		Mailer:      wk.Mailer,
		Helper:      wk.Helper,
		Logger:      wk.Logger,
		Ctx:         wk.Ctx,
	}
}
