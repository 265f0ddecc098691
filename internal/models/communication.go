package models

import "time"

type Thread struct {
	ID           int64     `json:"id"`
	Participants []int64   `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	ThreadID  int64     `json:"thread_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
	IsRead    bool      `json:"is_read"`
	IsDeleted bool      `json:"is_deleted"`
}
