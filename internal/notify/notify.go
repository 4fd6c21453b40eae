package notify

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Notification is one transient user-facing notice.
type Notification struct {
	Level   Level
	Message string
}

// Notifier is what the controllers raise notices through.
type Notifier interface {
	Notify(n Notification)
}

// Hub buffers notifications for the UI event loop. Publish never
// blocks: when nobody is draining, the oldest pending notice is
// dropped in favour of the new one.
type Hub struct {
	ch chan Notification
}

func NewHub() *Hub {
	return &Hub{ch: make(chan Notification, 16)}
}

func (h *Hub) Notify(n Notification) {
	select {
	case h.ch <- n:
	default:
		select {
		case <-h.ch:
		default:
		}
		select {
		case h.ch <- n:
		default:
		}
	}
}

// C is the channel the UI waits on as an external event source.
func (h *Hub) C() <-chan Notification {
	return h.ch
}

func Info(n Notifier, msg string)    { n.Notify(Notification{Level: LevelInfo, Message: msg}) }
func Success(n Notifier, msg string) { n.Notify(Notification{Level: LevelSuccess, Message: msg}) }
func Error(n Notifier, msg string)   { n.Notify(Notification{Level: LevelError, Message: msg}) }
