package db

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath is the SQLITE_PATH value that selects a throwaway in-memory store.
const MemoryPath = ":memory:"

// memoryDialector names a private shared-cache database so every pooled
// connection sees the same tables.
func memoryDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()))
}

// OpenInMemory returns a migrated, private in-memory sqlite store with SQL
// logging off. Each call gets its own database.
func OpenInMemory() (Database, error) {
	return Open(memoryDialector(), logger.Silent)
}
