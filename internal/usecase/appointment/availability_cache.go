package appointment

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/cache"
)

// MonthAvailabilityCache guarda o calendário mensal por geração: cada
// escrita de agendamento apaga a chave de geração do par
// (profissional, mês), órfãnando de uma vez todas as entradas derivadas
// (uma por duração). As órfãs expiram pelo TTL. Redis fora do ar degrada
// para leitura sem cache.
type MonthAvailabilityCache struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewMonthAvailabilityCache(c cache.Cache, ttl time.Duration) *MonthAvailabilityCache {
	return &MonthAvailabilityCache{cache: c, ttl: ttl}
}

func genKey(professionalID uint, year int, month time.Month) string {
	return fmt.Sprintf("avail:gen:%d:%d-%02d", professionalID, year, int(month))
}

func (m *MonthAvailabilityCache) generation(
	ctx context.Context,
	professionalID uint,
	year int,
	month time.Month,
) string {

	key := genKey(professionalID, year, month)

	if raw, ok, err := m.cache.Get(ctx, key); err == nil && ok {
		return string(raw)
	}

	gen := strconv.FormatInt(time.Now().UnixNano(), 36)
	if err := m.cache.Set(ctx, key, []byte(gen), m.ttl); err != nil {
		log.Println("availability cache set error:", err)
	}
	return gen
}

func (m *MonthAvailabilityCache) entryKey(
	ctx context.Context,
	professionalID uint,
	year int,
	month time.Month,
	durationMin int,
) string {
	gen := m.generation(ctx, professionalID, year, month)
	return fmt.Sprintf("avail:month:%d:%d-%02d:%s:d%d", professionalID, year, int(month), gen, durationMin)
}

func (m *MonthAvailabilityCache) Get(
	ctx context.Context,
	professionalID uint,
	year int,
	month time.Month,
	durationMin int,
) ([]byte, bool) {

	raw, ok, err := m.cache.Get(ctx, m.entryKey(ctx, professionalID, year, month, durationMin))
	if err != nil {
		log.Println("availability cache get error:", err)
		return nil, false
	}
	return raw, ok
}

func (m *MonthAvailabilityCache) Put(
	ctx context.Context,
	professionalID uint,
	year int,
	month time.Month,
	durationMin int,
	payload []byte,
) {
	if err := m.cache.Set(ctx, m.entryKey(ctx, professionalID, year, month, durationMin), payload, m.ttl); err != nil {
		log.Println("availability cache set error:", err)
	}
}

// Invalidate é síncrono no caminho de escrita: derruba a geração do mês
// afetado antes da resposta voltar ao cliente.
func (m *MonthAvailabilityCache) Invalidate(
	ctx context.Context,
	professionalID uint,
	at time.Time,
) {
	if err := m.cache.Delete(ctx, genKey(professionalID, at.Year(), at.Month())); err != nil {
		log.Println("availability cache invalidate error:", err)
	}
}
