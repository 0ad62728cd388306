package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"token-generation/config"
	"token-generation/internal/model"
	"token-generation/internal/ports"
	"token-generation/internal/repository"
	"token-generation/internal/security"
	"token-generation/internal/service"
)

const usage = `использование: tokenctl <команда> [флаги]

команды:
  issue           -subject S [-days N]       выпустить refresh токен
  renew           -token T [-days N]         продлить refresh токен
  access          -token T [-minutes N]      выпустить access токен по refresh токену
  verify-access   -token T                   проверить access токен
  verify-refresh  -token T                   проверить refresh токен
  revoke          -subject S                 отозвать все refresh токены субъекта
  generation      -subject S                 показать запись поколения субъекта (не создает её)
  migrate                                    создать таблицу generation (postgres)
`

type options struct {
	configPath string
	subject    string
	token      string
	days       int
	minutes    int
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	var opts options
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	flags.StringVar(&opts.configPath, "config", "config.yaml", "путь к файлу конфигурации")
	flags.StringVar(&opts.subject, "subject", "", "идентификатор субъекта")
	flags.StringVar(&opts.token, "token", "", "подписанный токен")
	flags.IntVar(&opts.days, "days", 0, "срок жизни refresh токена в сутках (0 - из конфигурации)")
	flags.IntVar(&opts.minutes, "minutes", 0, "срок жизни access токена в минутах (0 - из конфигурации)")
	if err := flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		log.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	logger, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("ошибка настройки логгера: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	flushSentry, err := config.SetupSentry(&cfg.Sentry)
	if err != nil {
		logger.Fatal("ошибка инициализации Sentry", zap.Error(err))
	}
	defer flushSentry()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, command, opts); err != nil {
		logger.Error("команда завершилась с ошибкой", zap.String("command", command), zap.Error(err))
		cancel()
		flushSentry()
		_ = logger.Sync()
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, cfg *config.AppConfig, command string, opts options) error {
	store, err := setupGenerationStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			zap.L().Warn("ошибка при закрытии хранилища", zap.Error(err))
		}
	}()

	if command == "migrate" {
		migrator, ok := store.(interface{ Migrate(context.Context) error })
		if !ok {
			return fmt.Errorf("migrate поддерживается только для store.backend: %s", config.StoreBackendPostgres)
		}
		return migrator.Migrate(ctx)
	}

	key, err := security.LoadHMACKey(&cfg.JWT)
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	jwtService := security.NewJWTService(key, clock)
	zap.L().Debug("ключ подписи загружен", zap.String("kid", jwtService.KeyID()))

	tokenService := service.NewTokenService(store, jwtService, clock)
	authService := service.NewAuthenticationService(tokenService, &cfg.JWT)

	switch command {
	case "issue":
		return printToken(authService.IssueRefreshToken(ctx, opts.subject, opts.days))
	case "renew":
		return printToken(authService.RenewRefreshToken(ctx, opts.token, opts.days))
	case "access":
		return printToken(authService.IssueAccessToken(ctx, opts.token, opts.minutes))
	case "verify-access":
		subjectID, ok := authService.VerifyAccessToken(opts.token)
		if !ok {
			return model.ErrRejected
		}
		return printJSON(map[string]string{"subject_id": subjectID})
	case "verify-refresh":
		token, ok := authService.VerifyRefreshToken(opts.token)
		if !ok {
			return model.ErrRejected
		}
		return printJSON(map[string]any{"subject_id": token.SubjectID, "generation": token.Generation})
	case "revoke":
		return authService.RevokeAll(ctx, opts.subject)
	case "generation":
		if opts.subject == "" {
			return fmt.Errorf("%w: пустой subject", model.ErrInvalidArgument)
		}
		return showGeneration(ctx, store, opts.subject, os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("%w: неизвестная команда %q", model.ErrInvalidArgument, command)
	}
}

func setupGenerationStore(cfg *config.AppConfig) (ports.GenerationStore, error) {
	timeout, err := cfg.StoreTimeout()
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := config.SetupDatabase(&cfg.DatabaseConfig)
		if err != nil {
			return nil, err
		}
		return repository.NewGenerationRepository(db, timeout), nil
	case config.StoreBackendRedis:
		redisClient, err := config.SetupRedis(&cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisGenerationRepository(redisClient, cfg.RedisConfig.KeyPrefix, timeout), nil
	case config.StoreBackendMemory:
		zap.L().Warn("поколения хранятся в памяти и не переживут завершение процесса")
		return repository.NewMemoryGenerationRepository(), nil
	default:
		return nil, fmt.Errorf("неизвестное хранилище поколений: %s", cfg.Store.Backend)
	}
}

func printToken(token string, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

// showGeneration печатает запись поколения без её создания.
// Для субъекта без записи печатает found: false.
func showGeneration(ctx context.Context, store ports.GenerationStore, subjectID string, out io.Writer) error {
	record, err := store.FindRecord(ctx, subjectID)
	if errors.Is(err, model.ErrNotFound) {
		return writeJSON(out, map[string]any{"subject_id": subjectID, "found": false})
	}
	if err != nil {
		return err
	}
	return writeJSON(out, record)
}

func printJSON(value any) error {
	return writeJSON(os.Stdout, value)
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// exitCode : 1 - токен отклонён, 3 - ошибка хранилища, 2 - прочие ошибки
func exitCode(err error) int {
	switch {
	case errors.Is(err, model.ErrRejected):
		return 1
	case errors.Is(err, model.ErrStorage):
		return 3
	default:
		return 2
	}
}
