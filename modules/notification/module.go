package notification

import (
	"parking-rsvp-api/core/config"
	"parking-rsvp-api/modules/notification/service"
	rsvpService "parking-rsvp-api/modules/rsvp/service"

	"github.com/hibiken/asynq"
)

// Init wires the reminder queue against the shared redis instance and
// returns the enqueuing service plus the worker for the asynq server.
func Init(cfg config.RedisConfig, links *rsvpService.LinkService) (*service.NotificationService, *service.ReminderWorker, asynq.RedisClientOpt) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)
	notifSvc := service.NewNotificationService(client)
	worker := service.NewReminderWorker(links, service.NewLogSender())

	return notifSvc, worker, redisOpt
}
