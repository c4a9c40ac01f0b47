package subscription

const (
	welcomeText = `Добро пожаловать!

Этот бот присылает оповещения сервиса.
Отправьте /subscribe, чтобы получать рассылку, или /help для списка команд.`

	helpText = `Доступные команды:
/start - приветствие
/subscribe - подписаться на рассылку
/unsubscribe - отписаться от рассылки
/help - эта справка`

	subscribedText   = "Вы подписаны на рассылку."
	unsubscribedText = "Вы отписаны от рассылки."
	unknownText      = "Неизвестная команда. Отправьте /help для списка команд."
)
