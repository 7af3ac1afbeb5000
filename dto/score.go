package dto

import "time"

type BalanceResponse struct {
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
}

type TransactionResponse struct {
	ID         string    `json:"id"`
	Amount     int64     `json:"amount"`
	Reason     string    `json:"reason"`
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
}

type LeaderboardResponse struct {
	Entries  []LeaderboardEntry `json:"entries"`
	UserRank *LeaderboardEntry  `json:"user_rank,omitempty"`
}
