package admin

import "errors"

// ErrNotPending возвращается при попытке отклонить пользователя, который не ждёт подтверждения.
var ErrNotPending = errors.New("user is not a pending student")
