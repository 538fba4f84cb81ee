package handler

import "time"

type createVisitRequest struct {
	ClientID string `json:"clientId" validate:"notblank"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

type visitResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}
