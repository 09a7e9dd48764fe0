package models

const (
	// DefaultPageSize размер страницы, если size не передан
	DefaultPageSize = 10

	// MaxPageSize верхняя граница size
	MaxPageSize = 100

	// MaxExportRows ограничение строк в выгрузке xlsx
	MaxExportRows = 10000

	// RateLimitRequests запросов на пользователя в окне по умолчанию
	RateLimitRequests = 600

	// RateLimitWindow окно квоты запросов в секундах
	RateLimitWindow = 60
)
