package provider

import (
	"github.com/esim-referral/internal/authz"
	"github.com/esim-referral/internal/cache"
	"github.com/esim-referral/internal/config"
	"github.com/esim-referral/internal/logger"
	"github.com/esim-referral/internal/models"
	"github.com/esim-referral/internal/queue"
	"github.com/esim-referral/internal/repository"
	"github.com/esim-referral/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	SettingRepo       repository.SettingRepository
	ReferralRepo      repository.ReferralRepository
	LedgerRepo        repository.LedgerRepository
	BankAccountRepo   repository.BankAccountRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	UserAuthService    *service.UserAuthService
	SettingService     *service.SettingService
	ReferralService    *service.ReferralService
	BankAccountService *service.BankAccountService
	AuthzAuditService  *service.AuthzAuditService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.ReferralRepo = repository.NewReferralRepository(db)
	c.LedgerRepo = repository.NewLedgerRepository(db)
	c.BankAccountRepo = repository.NewBankAccountRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	if err := c.SettingService.SeedReferralSetting(c.Config.Referral); err != nil {
		logger.Warnw("provider_seed_referral_setting_failed", "error", err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ReferralService = service.NewReferralService(c.ReferralRepo, c.LedgerRepo, c.UserRepo, c.BankAccountRepo, c.SettingService)
	c.BankAccountService = service.NewBankAccountService(c.BankAccountRepo, c.UserRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.ReferralService)
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)
}
