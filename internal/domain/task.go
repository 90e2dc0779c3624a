package domain

import "time"

type TaskStatus string

const (
	TaskToDo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case "":
		return TaskToDo, nil
	case TaskToDo, TaskInProgress, TaskDone:
		return TaskStatus(s), nil
	}
	return "", NewValidationError("Invalid status. Allowed: To Do, In Progress, Done")
}

type Task struct {
	ID          string
	Title       string
	Description *string
	ProjectID   string
	AssigneeID  *string
	Status      TaskStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ActivityLog struct {
	ID        string
	UserID    *string
	Action    string
	CreatedAt time.Time
}
