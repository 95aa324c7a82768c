package dto

import (
	"fmt"
	"medreminder/internal/domain/constant"
	"medreminder/internal/domain/entity"
	"time"
)

// NotificationResponse describes a pending notification.
type NotificationResponse struct {
	Identifier string               `json:"identifier"`
	Title      string               `json:"title"`
	Body       string               `json:"body"`
	Payload    *entity.Payload      `json:"payload,omitempty"`
	Trigger    constant.TriggerType `json:"trigger"`
	FireAt     *time.Time           `json:"fireAt,omitempty"`
	TimeOfDay  string               `json:"timeOfDay,omitempty"`
}

// ToNotificationResponse converts a pending notification to its DTO.
func ToNotificationResponse(n *entity.ScheduledNotification) NotificationResponse {
	resp := NotificationResponse{
		Identifier: n.Identifier,
		Title:      n.Title,
		Body:       n.Body,
		Payload:    n.Payload,
		Trigger:    n.Trigger.Type,
	}
	switch n.Trigger.Type {
	case constant.TriggerDate:
		at := n.Trigger.At
		resp.FireAt = &at
	case constant.TriggerDaily:
		resp.TimeOfDay = fmt.Sprintf("%02d:%02d", n.Trigger.Hour, n.Trigger.Minute)
	}
	return resp
}

// ToNotificationResponseList converts pending notifications to DTOs.
func ToNotificationResponseList(ns []*entity.ScheduledNotification) []NotificationResponse {
	list := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		list[i] = ToNotificationResponse(n)
	}
	return list
}

// InitializeResponse is returned after notification setup.
type InitializeResponse struct {
	Token string `json:"token"`
}
