package models

import (
	"strings"

	id "github.com/Joenyengs/backend/pkg/domain"
)

// Recipient addresses a notification to one user or to every holder of a role.
type Recipient string

func UserRecipient(userID id.UserID) Recipient {
	return Recipient("user:" + userID.String())
}

func RoleRecipient(role id.Role) Recipient {
	return Recipient("role:" + role.String())
}

// Kind returns "user" or "role".
func (r Recipient) Kind() string {
	kind, _, _ := strings.Cut(string(r), ":")
	return kind
}

// Notification is handed to the delivery sink after the change commits.
type Notification struct {
	Recipients []Recipient `json:"recipients"`
	Message    string      `json:"message"`
	Link       string      `json:"link"`
}
