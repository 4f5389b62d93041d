// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-feed/internal/adapter"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/internal/validators"
)

var ErrUserQuit = errors.New("вышел из программы")

// networkMarkers are fragments of dial and timeout errors.
var networkMarkers = []string{
	"connection refused",
	"dial tcp",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"context deadline exceeded",
}

// humanizeError turns service errors into the short text shown next to
// the affected part of the screen.
func humanizeError(err error) string {
	switch {
	case err == nil, errors.Is(err, service.ErrStaleResponse):
		return ""
	case errors.Is(err, service.ErrAuthRequired):
		return "Требуется вход"
	case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
		return "Сессия истекла, войдите снова"
	case errors.Is(err, service.ErrWrongPassword):
		return "Неверный логин или пароль"
	case errors.Is(err, store.ErrLoginAlreadyExists):
		return "Логин уже занят"
	case errors.Is(err, service.ErrForbidden):
		return "Нет доступа"
	case errors.Is(err, service.ErrEmptyComment):
		return "Комментарий не может быть пустым"
	case errors.Is(err, validators.ErrInvalidLogin):
		return fmt.Sprintf("Логин: от 1 до %d символов", validators.MaxLoginLength)
	case errors.Is(err, validators.ErrInvalidPassword):
		return fmt.Sprintf("Пароль: от 1 до %d байт", validators.MaxPasswordLength)
	case errors.Is(err, service.ErrInvalidDataProvided):
		return "Некорректные данные"
	case errors.Is(err, store.ErrListNotFound),
		errors.Is(err, store.ErrCommentNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		return "Запись не найдена"
	case errors.Is(err, adapter.ErrRequest):
		return "Отсутствует сеть или Сервер недоступен"
	}

	text := strings.ToLower(err.Error())
	for _, marker := range networkMarkers {
		if strings.Contains(text, marker) {
			return "Отсутствует сеть или Сервер недоступен"
		}
	}
	return err.Error()
}
