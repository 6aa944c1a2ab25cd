package utils

import "github.com/google/uuid"

func GenerateRequestID() string {
	return uuid.New().String()
}

func GenerateSubmissionID() string {
	return uuid.New().String()
}

func GenerateMessageID() string {
	return uuid.New().String()
}
