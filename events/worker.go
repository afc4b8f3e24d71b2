package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"jasaku/config"
	"jasaku/models"
	"jasaku/services/notification"

	"github.com/hibiken/asynq"
)

// InitStateChangeWorker runs the async worker in background.
func InitStateChangeWorker(notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventsDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingStateChanged, handleStateChangeTask(notifSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[EventsWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EventsWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EventsWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleStateChangeTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var evt models.BookingStateChanged
		if err := json.Unmarshal(task.Payload(), &evt); err != nil {
			log.Printf("[EventsWorker] invalid payload: %v", err)
			return err
		}

		return notifSvc.NotifyBookingStateChanged(ctx, evt)
	}
}
