package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome is the task type sent after a new user registers.
	TaskWelcome = "email:welcome"
)

// WelcomeEmailPayload is the JSON payload of a TaskWelcome task.
type WelcomeEmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name,omitempty"`
}

// NewWelcomeEmailTask builds a welcome email task: 3 retries on the default
// queue, 30s per attempt.
func NewWelcomeEmailTask(to, name string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:   to,
		Name: name,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
