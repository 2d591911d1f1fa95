package models

// Article: проекция документа статьи, которую шлюз хранилища гарантирует для каждой записи.
// Отсутствующие текстовые поля приходят пустыми строками, идентификатор и дата уже
// переведены в текст (дата: RFC 3339, UTC).
type Article struct {
	ID          string
	Title       string
	Description string
	Content     string
	Author      string
	Source      string
	URL         string
	ImageURL    string
	PublishedAt string
	Category    string
	Tags        []string
}
