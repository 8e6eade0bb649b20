package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/platform/id"
	platformotel "github.com/louisbranch/fractional/internal/platform/otel"
	"github.com/louisbranch/fractional/internal/platform/requestctx"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/authz"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/command"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/engine"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/replay"
	"github.com/louisbranch/fractional/internal/services/ledger/storage"
)

const tracerName = "github.com/louisbranch/fractional/internal/services/ledger/service"

// AccessControl is the authorizer plus the administrative writes the ledger
// forwards to it.
type AccessControl interface {
	authz.Authorizer
	Grant(role authz.Role, account string)
	Revoke(role authz.Role, account string)
	SetApprovalForAll(owner, operator string, approved bool)
}

// Config wires a Ledger to its collaborators.
type Config struct {
	Events   storage.EventStore
	Metadata storage.MetadataStore
	Access   AccessControl
	Pause    *authz.PauseSwitch
	Logger   *zap.Logger
	// Journal scopes signature verification during Load.
	Journal string
	Now     func() time.Time
}

// Ledger is the application facade over the domain engine.
type Ledger struct {
	handler  *engine.Handler
	events   storage.EventStore
	metadata storage.MetadataStore
	access   AccessControl
	pause    *authz.PauseSwitch
	logger   *zap.Logger
	tracer   trace.Tracer
	journal  string
}

// New builds a Ledger with an empty state. Call Load to rebuild state from an
// existing journal.
func New(cfg Config) (*Ledger, error) {
	if cfg.Events == nil {
		return nil, errors.New("event store is required")
	}
	if cfg.Metadata == nil {
		return nil, errors.New("metadata store is required")
	}
	if cfg.Access == nil {
		return nil, errors.New("access control is required")
	}
	if cfg.Pause == nil {
		cfg.Pause = &authz.PauseSwitch{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	journal := strings.TrimSpace(cfg.Journal)
	if journal == "" {
		journal = storage.DefaultJournal
	}

	commands := command.NewRegistry()
	if err := asset.RegisterCommands(commands); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	events := event.NewRegistry()
	if err := asset.RegisterEvents(events); err != nil {
		return nil, fmt.Errorf("register events: %w", err)
	}

	return &Ledger{
		handler: &engine.Handler{
			Commands:   commands,
			Events:     events,
			Journal:    cfg.Events,
			Authorizer: cfg.Access,
			Pauser:     cfg.Pause,
			Now:        cfg.Now,
		},
		events:   cfg.Events,
		metadata: cfg.Metadata,
		access:   cfg.Access,
		pause:    cfg.Pause,
		logger:   cfg.Logger,
		tracer:   platformotel.Tracer(tracerName),
		journal:  journal,
	}, nil
}

// Load replays the journal and installs the rebuilt state. A nil verifier
// skips signature checks but still enforces sequence and hash links.
func (l *Ledger) Load(ctx context.Context, verifier replay.Verifier) (replay.Result, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.load")
	defer span.End()

	result, err := replay.Replay(ctx, l.events, replay.Options{Verifier: verifier, Journal: l.journal})
	if err != nil {
		recordError(span, err)
		return replay.Result{}, err
	}
	l.handler.Restore(result.State)
	span.SetAttributes(attribute.Int64("ledger.last_seq", int64(result.LastSeq)))
	l.logger.Info("ledger state restored",
		zap.Uint64("last_seq", result.LastSeq),
		zap.Int("applied", result.Applied),
		zap.Uint64("last_token_id", result.State.LastTokenID),
	)
	return result, nil
}

// Observe registers fn for every committed batch.
func (l *Ledger) Observe(fn engine.Observer) {
	l.handler.Observe(fn)
}

// execute builds the command envelope, runs it through the engine, and logs
// the outcome.
func (l *Ledger) execute(ctx context.Context, caller string, cmdType command.Type, payload any) (engine.Result, error) {
	ctx, span := l.tracer.Start(ctx, "ledger."+string(cmdType),
		trace.WithAttributes(
			attribute.String("ledger.command", string(cmdType)),
			attribute.String("ledger.caller", caller),
		))
	defer span.End()

	cmd, err := l.newCommand(ctx, caller, cmdType, payload)
	if err != nil {
		recordError(span, err)
		return engine.Result{}, err
	}

	result, err := l.handler.Execute(ctx, cmd)
	if err != nil {
		recordError(span, err)
		fields := []zap.Field{
			zap.String("command", string(cmdType)),
			zap.String("caller", caller),
			zap.String("request_id", cmd.RequestID),
			zap.String("code", string(apperrors.CodeOf(err))),
			zap.Error(err),
		}
		switch {
		case engine.IsNonRetryable(err):
			l.logger.Error("committed events could not be applied", fields...)
		case apperrors.KindOf(err) == apperrors.KindUnknown, apperrors.KindOf(err) == apperrors.KindInternal:
			l.logger.Error("command failed", fields...)
		default:
			l.logger.Debug("command rejected", fields...)
		}
		return result, err
	}

	if n := len(result.Events); n > 0 {
		span.SetAttributes(attribute.Int64("ledger.last_seq", int64(result.Events[n-1].Seq)))
		l.logger.Info("command committed",
			zap.String("command", string(cmdType)),
			zap.String("caller", caller),
			zap.String("request_id", cmd.RequestID),
			zap.Uint64("first_seq", result.Events[0].Seq),
			zap.Uint64("last_seq", result.Events[n-1].Seq),
		)
	}
	return result, nil
}

func (l *Ledger) newCommand(ctx context.Context, caller string, cmdType command.Type, payload any) (command.Command, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return command.Command{}, fmt.Errorf("encode %s payload: %w", cmdType, err)
	}
	requestID := requestctx.RequestIDFromContext(ctx)
	if requestID == "" {
		if requestID, err = id.NewID(); err != nil {
			return command.Command{}, err
		}
	}
	invocationID, err := id.NewID()
	if err != nil {
		return command.Command{}, err
	}
	return command.Command{
		Type:          cmdType,
		ActorID:       strings.TrimSpace(caller),
		RequestID:     requestID,
		InvocationID:  invocationID,
		CorrelationID: requestID,
		PayloadJSON:   data,
	}, nil
}

// check authorizes an operation that does not flow through the journal.
func (l *Ledger) check(ctx context.Context, req authz.Requirement, caller string) error {
	return authz.Check(ctx, l.access, req, caller)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
