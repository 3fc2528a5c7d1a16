package status

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/statuspanel/internal/config"
	"github.com/2beens/statuspanel/internal/telemetry/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Service struct {
	store         StatusStore
	knownServices []config.KnownService
	// ability to inject time and id generation (for unit testing)
	NowFunc   func() time.Time
	NewIDFunc func() string
}

func NewService(store StatusStore, knownServices []config.KnownService) *Service {
	return &Service{
		store:         store,
		knownServices: knownServices,
		NowFunc:       time.Now,
		NewIDFunc:     uuid.NewString,
	}
}

func (s *Service) KnownServices() []config.KnownService {
	return s.knownServices
}

func (s *Service) All(ctx context.Context) ([]*Status, error) {
	return s.store.All(ctx)
}

// Upsert applies u to the record of u.ServiceName, creating it if needed.
// Concurrent updates to the same service are last-write-wins.
func (s *Service) Upsert(ctx context.Context, u Update) (_ *Status, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.status.upsert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	u.ServiceName = strings.TrimSpace(u.ServiceName)
	if u.ServiceName == "" {
		return nil, ErrEmptyServiceName
	}
	span.SetAttributes(attribute.String("service", u.ServiceName))

	if u.State == "" {
		u.State = DefaultState
	}

	st, err := s.store.Upsert(ctx, s.NewIDFunc(), u, s.NowFunc())
	if err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	return st, nil
}

// StatusWithDefaults is the record shown for a known service nobody has reported on yet.
func StatusWithDefaults(ks config.KnownService) *Status {
	st := &Status{
		ServiceName: ks.Name,
		State:       DefaultState,
	}
	if ks.TracksQueue {
		st.QueueState = DefaultQueueState
	}
	return st
}

// Board lists the known services in configured order, stored records taking precedence
// over defaults, followed by every other stored service sorted by name.
func (s *Service) Board(ctx context.Context) ([]*Status, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.status.board")
	defer span.End()

	stored, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all statuses: %w", err)
	}

	byName := make(map[string]*Status, len(stored))
	for _, st := range stored {
		byName[st.ServiceName] = st
	}

	board := make([]*Status, 0, len(s.knownServices)+len(stored))
	known := make(map[string]bool, len(s.knownServices))
	for _, ks := range s.knownServices {
		known[ks.Name] = true
		if st, ok := byName[ks.Name]; ok {
			board = append(board, st)
		} else {
			board = append(board, StatusWithDefaults(ks))
		}
	}

	var others []*Status
	for _, st := range stored {
		if !known[st.ServiceName] {
			others = append(others, st)
		}
	}
	sort.Slice(others, func(i, j int) bool {
		return others[i].ServiceName < others[j].ServiceName
	})

	return append(board, others...), nil
}
