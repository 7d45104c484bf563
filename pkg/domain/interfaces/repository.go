package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Review() ReviewRepository
	TelegramAction() TelegramActionRepository
	Settings() SettingsRepository

	Close() error
}
