package bot

import "errors"

var (
	// ErrAlreadyStarted возвращается при повторном запуске работающего потока
	ErrAlreadyStarted = errors.New("bot: polling thread is already running")

	// ErrStopping возвращается при запуске, пока остановленный поток ещё
	// дорабатывает текущее обновление
	ErrStopping = errors.New("bot: previous polling thread is still stopping")

	// ErrNoChats возвращается при отправке без получателей
	ErrNoChats = errors.New("bot: no chat ids to send to")
)
