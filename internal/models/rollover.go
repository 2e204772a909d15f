package models

// TenantFailure фиксирует ошибку обработки одного зала при месячном сбросе.
type TenantFailure struct {
	GymID string `json:"gym_id"`
	Err   string `json:"error"`
}

// RolloverResult — итог месячного сброса по всем арендаторам. Ошибки
// отдельных залов не прерывают обход: они накапливаются в Failures,
// остальные залы обрабатываются до конца.
type RolloverResult struct {
	TenantCount        int             `json:"tenant_count"`
	UpdatedMemberCount int             `json:"updated_member_count"`
	Failures           []TenantFailure `json:"failures,omitempty"`
}

// PartialFailure сообщает, завершился ли сброс частично: часть залов
// обработана, часть — с ошибками.
func (r *RolloverResult) PartialFailure() bool {
	return len(r.Failures) > 0
}

// GenerateResult — итог генерации месячных напоминаний по всем арендаторам.
type GenerateResult struct {
	TenantCount   int             `json:"tenant_count"`
	EnqueuedCount int             `json:"enqueued_count"`
	SkippedCount  int             `json:"skipped_count"` // Уже в очереди за этот период
	Failures      []TenantFailure `json:"failures,omitempty"`
}
