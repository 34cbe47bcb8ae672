package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/tenderchain/tender-marketplace/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Println(err)
	}
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 50 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [0:50]")
		}
	} else {
		limit = 5
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	} else {
		offset = 0
	}

	return limit, offset, nil
}

// CheckUserExistsById проверяет, существует ли пользователь по полю id
func CheckUserExistsById(ctx context.Context, dbPool *pgxpool.Pool, userId string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	err := dbPool.QueryRow(ctx, query, userId).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CheckEmailTaken проверяет, занят ли адрес электронной почты
func CheckEmailTaken(ctx context.Context, dbPool *pgxpool.Pool, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := dbPool.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CheckTenderExists проверяет, существует ли тендер
func CheckTenderExists(ctx context.Context, dbPool *pgxpool.Pool, tenderId string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tenders WHERE id = $1)`
	err := dbPool.QueryRow(ctx, query, tenderId).Scan(&exists)
	return exists, err
}

// CheckTenderOwner проверяет, что пользователь является владельцем тендера
func CheckTenderOwner(ctx context.Context, dbPool *pgxpool.Pool, tenderId, userId string) (bool, error) {
	var isOwner bool
	query := `SELECT EXISTS(SELECT 1 FROM tenders WHERE id = $1 AND buyer_id = $2)`
	err := dbPool.QueryRow(ctx, query, tenderId, userId).Scan(&isOwner)
	return isOwner, err
}

// ContainsTenderStatus - функция для проверки перехода у тендеров
func ContainsTenderStatus(validTransitions []models.TenderStatus, newStatus models.TenderStatus) bool {
	for _, validStatus := range validTransitions {
		if validStatus == newStatus {
			return true
		}
	}
	return false
}
