package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/AzielCF/az-meta/core/config"
	"github.com/AzielCF/az-meta/core/database"
	domainChannel "github.com/AzielCF/az-meta/domains/channel"
	domainHealth "github.com/AzielCF/az-meta/domains/health"
	domainInstance "github.com/AzielCF/az-meta/domains/instance"
	domainSend "github.com/AzielCF/az-meta/domains/send"
	"github.com/AzielCF/az-meta/gateway"
	"github.com/AzielCF/az-meta/infrastructure/chatstorage"
	"github.com/AzielCF/az-meta/infrastructure/meta"
	"github.com/AzielCF/az-meta/infrastructure/valkey"
	"github.com/AzielCF/az-meta/infrastructure/webhookfwd"
	"github.com/AzielCF/az-meta/pkg/emitter"
	"github.com/AzielCF/az-meta/pkg/utils"
	"github.com/AzielCF/az-meta/usecase"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Gateway core
	gatewayManager *gateway.Manager
	eventBus       *emitter.Emitter
	eventRepo      *chatstorage.Repository
	forwarder      *webhookfwd.Forwarder
	vkClient       *valkey.Client
	serverID       string

	// Usecase
	instanceUsecase domainInstance.IInstanceUsecase
	sendUsecase     domainSend.ISendUsecase
	healthUsecase   domainHealth.IHealthUsecase

	// Flag overrides applied on top of the environment
	flagPort          string
	flagDebug         bool
	flagBasePath      string
	flagWebhook       []string
	flagWebhookSecret string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Short: "Multi-channel Meta messaging gateway",
	Long: `Gateway that binds WhatsApp Business, Facebook Pages and Instagram
Direct accounts behind one webhook surface and one send API.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&flagPort,
		"port", "p",
		"",
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flagDebug,
		"debug", "d",
		false,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagBasePath,
		"base-path", "",
		"",
		`base path for subpath deployment --base-path <string> | example: --base-path="/gateway"`,
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&flagWebhook,
		"webhook", "w",
		nil,
		`forward event to webhook --webhook <string> | example: --webhook="https://yourcallback.com/callback"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&flagWebhookSecret,
		"webhook-secret", "",
		"",
		`secure webhook request --webhook-secret <string> | example: --webhook-secret="super-secret-key"`,
	)
}

func applyFlagOverrides(cfg *config.Config) {
	if flagPort != "" {
		cfg.App.Port = flagPort
	}
	if flagDebug || viper.GetBool("app_debug") {
		cfg.App.Debug = true
	}
	if flagBasePath != "" {
		cfg.App.BasePath = flagBasePath
	}
	if len(flagWebhook) > 0 {
		cfg.Webhook.URLs = flagWebhook
	}
	if flagWebhookSecret != "" {
		cfg.Webhook.Secret = flagWebhookSecret
	}
}

func initApp() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("[APP] Invalid configuration: %v", err)
	}
	applyFlagOverrides(cfg)

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := utils.CreateFolder(cfg.Paths.Storages, cfg.Paths.Statics); err != nil {
		logrus.Errorln(err)
	}

	serverID = cfg.App.ServerID
	if serverID == "" {
		serverID = uuid.NewString()
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[APP] Failed to open database: %v", err)
	}

	eventRepo, err = chatstorage.NewRepository(db)
	if err != nil {
		logrus.Fatalf("[APP] Failed to init event storage: %v", err)
	}

	eventBus = emitter.New()
	if cfg.Database.ValkeyEnabled {
		vkClient, err = valkey.NewClient(valkey.Config{
			Address:   cfg.Database.ValkeyAddress,
			Password:  cfg.Database.ValkeyPassword,
			DB:        cfg.Database.ValkeyDB,
			KeyPrefix: cfg.Database.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.Errorf("[APP] Valkey disabled, connection failed: %v", err)
		} else {
			eventBus.SetValkeyClient(vkClient, serverID)
		}
	}

	forwarder = webhookfwd.NewForwarder(cfg.Webhook)
	eventBus.Subscribe(eventRepo.HandleEvent)
	eventBus.Subscribe(forwarder.HandleEvent)

	gatewayManager = gateway.NewManager()
	registerAdapterFactories(cfg)

	instanceUsecase = usecase.NewInstanceService(gatewayManager)
	sendUsecase = usecase.NewSendService(gatewayManager)
	healthUsecase = usecase.NewHealthService(gatewayManager)

	seedInstances(cfg)
}

func registerAdapterFactories(cfg *config.Config) {
	bootstrap := func(ctx context.Context, instanceID string) {
		adapter, ok := gatewayManager.GetAdapter(instanceID)
		if !ok {
			logrus.Warnf("[GATEWAY] Bootstrap requested for unknown instance %s", instanceID)
			return
		}
		logrus.Infof("[GATEWAY] Bootstrap requested for instance %s (%s)", adapter.InstanceName(), adapter.Provider())
	}

	gatewayManager.RegisterFactory(domainChannel.ProviderBusiness, func(inst domainInstance.Instance) (domainChannel.ChannelAdapter, error) {
		return meta.NewBusinessAdapter(inst, cfg.Providers.Business, eventBus, bootstrap), nil
	})
	gatewayManager.RegisterFactory(domainChannel.ProviderFacebook, func(inst domainInstance.Instance) (domainChannel.ChannelAdapter, error) {
		return meta.NewFacebookAdapter(inst, cfg.Providers.Facebook, eventBus, bootstrap), nil
	})
	gatewayManager.RegisterFactory(domainChannel.ProviderInstagram, func(inst domainInstance.Instance) (domainChannel.ChannelAdapter, error) {
		return meta.NewInstagramAdapter(inst, cfg.Providers.Instagram, eventBus, bootstrap), nil
	})
}

// seedInstances binds every instance declared through GATEWAY_INSTANCES so
// the gateway comes up ready without API calls.
func seedInstances(cfg *config.Config) {
	ctx := context.Background()
	for _, seed := range cfg.Instances {
		created, err := instanceUsecase.Create(ctx, domainInstance.CreateInstanceRequest{
			Name:        seed.Name,
			Provider:    seed.Provider,
			SenderID:    seed.SenderID,
			BearerToken: seed.BearerToken,
		})
		if err != nil {
			logrus.Errorf("[APP] Failed to seed instance %s: %v", seed.Name, err)
			continue
		}
		logrus.Infof("[APP] Instance %s bound to %s (state %s)", created.Name, created.Provider, created.State)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of adapters and infrastructure.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	if gatewayManager != nil {
		for _, inst := range gatewayManager.ListInstances() {
			if err := gatewayManager.RemoveInstance(inst.ID); err != nil {
				logrus.Errorf("[APP] Failed to disconnect instance %s: %v", inst.Name, err)
			}
		}
	}

	if vkClient != nil {
		vkClient.Close()
	}

	logrus.Info("[APP] Application stopped cleanly.")
}

func parseBasicAuthAccounts(credentials []string) map[string]string {
	account := make(map[string]string)
	for _, basicAuth := range credentials {
		ba := strings.Split(basicAuth, ":")
		if len(ba) != 2 {
			logrus.Fatalln("Basic auth is not valid, please this following format <user>:<secret>")
		}
		account[ba[0]] = ba[1]
	}
	return account
}
