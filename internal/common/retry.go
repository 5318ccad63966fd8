package common

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// 可重试的MySQL错误码：1205 锁等待超时，1213 死锁
var retryableMySQLCodes = map[uint16]bool{
	1205: true,
	1213: true,
}

// IsTemporary 判断是否为临时性错误
func IsTemporary(err error) bool {
	if temp, ok := err.(interface{ Temporary() bool }); ok {
		return temp.Temporary()
	}
	return false
}

// IsRetryable 判断是否可重试
// 连接失效和锁冲突可以重试，约束冲突等逻辑错误不行。
func IsRetryable(err error) bool {
	if IsTemporary(err) {
		return true
	}
	if err == sql.ErrConnDone || errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return retryableMySQLCodes[mysqlErr.Number]
	}
	return false
}

// WithRetry 通用重试机制
func WithRetry(operation func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return err
}
