package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadRescore = "leads.rescore"

type LeadRescorePayload struct {
	BatchSize int  `json:"batchSize"`
	Force     bool `json:"force"`
}

func NewLeadRescoreTask(payload LeadRescorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRescore, data), nil
}

func ParseLeadRescorePayload(task *asynq.Task) (LeadRescorePayload, error) {
	var payload LeadRescorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRescorePayload{}, err
	}
	return payload, nil
}
