package bootstrap

import (
	"github.com/Wilfix07/ecom-sub000/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	CacheModule,
	MetricsModule,
	KafkaModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
