package bot

// AlertHandler получает сообщения об ошибках фоновой работы бота
type AlertHandler func(message string)

// Alerter интерфейс получателя оповещений об ошибках бота
type Alerter interface {
	OnAlert(message string)
}

// AlerterFunc адаптер функции к Alerter
type AlerterFunc func(message string)

func (f AlerterFunc) OnAlert(message string) {
	f(message)
}

// FromAlerter преобразует Alerter в AlertHandler
// Для nil возвращает nil: оповещения отключены
func FromAlerter(a Alerter) AlertHandler {
	if a == nil {
		return nil
	}
	return a.OnAlert
}
