package domain

import (
	"time"

	"github.com/google/uuid"
)

// HealthStatus — статус здоровья процессора, заявленный им самим.
type HealthStatus string

const (
	// HealthStatusHealthy — процессор работает штатно.
	HealthStatusHealthy HealthStatus = "HEALTHY"

	// HealthStatusDegraded — процессор работает с деградацией.
	// Для health gate считается нездоровым.
	HealthStatusDegraded HealthStatus = "DEGRADED"

	// HealthStatusUnhealthy — процессор заявил о неработоспособности.
	HealthStatusUnhealthy HealthStatus = "UNHEALTHY"
)

// HealthRecord — последняя запись о здоровье процессора.
//
// Записывается самим процессором в кэш с TTL. Просроченная запись
// приравнивается к отсутствующей: процессор считается нездоровым.
type HealthRecord struct {
	// ProcessorID — процессор, о котором запись.
	ProcessorID uuid.UUID `json:"processor_id"`

	// Status — заявленный статус.
	Status HealthStatus `json:"status"`

	// LastUpdated — время последнего обновления записи.
	LastUpdated time.Time `json:"last_updated"`

	// ExpiresAt — время, после которого запись считается просроченной.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired возвращает true, если запись просрочена.
func (r *HealthRecord) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
