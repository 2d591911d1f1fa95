package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"news_mcp/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrConnect: хранилище недоступно при подключении.
	ErrConnect = errors.New("unable to connect to article store")
	// ErrNotConnected: чтение до успешного Connect или после Close.
	ErrNotConnected = errors.New("article store not connected")
	// ErrOperationFailed: хранилище отклонило запрос или упало во время чтения.
	ErrOperationFailed = errors.New("storage operation failed")
)

type state int

const (
	stateNew state = iota
	stateConnected
	stateClosed
)

// Database инкапсулирует пул соединений к PostgreSQL, в котором лежит коллекция статей.
// Жизненный цикл: new → connected → closed; после Close чтения возвращают ErrNotConnected.
type Database struct {
	connString string
	table      string

	mu    sync.RWMutex
	pool  *pgxpool.Pool
	state state
}

// NewDB создаёт шлюз для таблицы table. Соединение не открывается до Connect.
func NewDB(connString, table string) *Database {
	return &Database{connString: connString, table: table}
}

// Table возвращает имя таблицы со статьями.
func (db *Database) Table() string {
	return db.table
}

// Connect создаёт пул и проверяет доступность базы пингом. Повторный вызов
// после успешного подключения ничего не делает.
func (db *Database) Connect(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch db.state {
	case stateConnected:
		return nil
	case stateClosed:
		return fmt.Errorf("%w: already closed", ErrNotConnected)
	}

	pool, err := pgxpool.New(ctx, db.connString)
	if err != nil {
		return fmt.Errorf("%w: unable to create connection pool: %w", ErrConnect, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	db.pool = pool
	db.state = stateConnected
	logger.Log.WithField("table", db.table).Info("Connected to article store")
	return nil
}

// Close закрывает пул соединений. Безопасен, если Connect не вызывался.
func (db *Database) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.state == stateConnected {
		db.pool.Close()
		db.pool = nil
		logger.Log.Info("Article store connection closed")
	}
	db.state = stateClosed
}

// Ping проверяет, что база отвечает.
func (db *Database) Ping(ctx context.Context) error {
	pool, err := db.acquire()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (db *Database) acquire() (*pgxpool.Pool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.state != stateConnected {
		return nil, ErrNotConnected
	}
	return db.pool, nil
}
