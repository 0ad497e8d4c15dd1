package router

import (
	"github.com/lumalink/lumalink/internal/application"
	"github.com/lumalink/lumalink/internal/container"
	pginfra "github.com/lumalink/lumalink/internal/infrastructure/postgres"
	handlers "github.com/lumalink/lumalink/internal/interface/http"
	"github.com/lumalink/lumalink/internal/router/modules"
	"github.com/lumalink/lumalink/pkg/helpers"
)

// InitModules constructs all application modules from the container singletons
// and registers them with the router registry. Call once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	accounts := pginfra.NewAccountRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	tips := pginfra.NewTipRepository(pool)
	contacts := pginfra.NewContactRepository(pool)

	provisioning := application.NewProvisioningService(accounts, logger, container.GetRabbitPub(), container.GetES(), cfg.ESAccountsIndex, cfg.LoginURL)
	tipSvc := application.NewTipService(tips, profiles, logger, container.GetRabbitPub(), cfg.TipFeePercent, cfg.TipMinCents, cfg.TipMaxCents, cfg.Currency)
	checkout := application.NewCheckoutService(container.GetGateway(), accounts, profiles, logger)
	accountSvc := application.NewAccountService(accounts, container.GetJWT(), container.GetRedis(), logger)
	profileSvc := application.NewProfileService(profiles, container.GetRedis(), container.GetGCS(), cfg.GCSBucket, logger)
	adminSvc := application.NewAdminService(accounts, profiles, tips, contacts, logger, container.GetES(), cfg.ESAccountsIndex, cfg.SignupPriceCents)

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewCheckoutModule(handlers.NewCheckoutHandler(checkout, provisioning, tipSvc, container.GetGateway(), logger)))
	r.Add(modules.NewAccountModule(handlers.NewAuthHandler(accountSvc, cookies, logger), container.GetJWT()))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profileSvc, tipSvc, logger), container.GetJWT()))
	r.Add(modules.NewPublicModule(handlers.NewPublicHandler(profileSvc, tipSvc, adminSvc, logger)))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(adminSvc, logger), container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
