package model

import (
	"errors"
	"fmt"
)

// ErrRejected : токен не принят. Наружу причина отказа не раскрывается.
var ErrRejected = errors.New("токен отклонён")

var (
	ErrTokenInvalid = fmt.Errorf("%w: невалидный токен", ErrRejected)
	ErrTokenRevoked = fmt.Errorf("%w: токен отозван", ErrRejected)
)

var (
	// ErrStorage : хранилище поколений недоступно или вернуло ошибку.
	// Не оборачивает ErrRejected: вызывающий слой должен отличать его от отказа.
	ErrStorage         = errors.New("ошибка хранилища поколений")
	ErrNotFound        = errors.New("запись не найдена")
	ErrInvalidArgument = errors.New("некорректный аргумент")
)
