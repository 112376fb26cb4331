// internal/driver/registry_init.go
package driver

import (
	"go.uber.org/zap"

	"device-gateway/internal/codec/digi"
	"device-gateway/internal/codec/dpl"
	"device-gateway/internal/codec/mtsics"
	"device-gateway/internal/codec/tenzom"
	"device-gateway/internal/config"
	"device-gateway/internal/pool"
)

// Driver names accepted in client requests
const (
	DriverTenzoM          = "tenzo_m"
	DriverTenzoMNet       = "tenzo_m_net"
	DriverMTSICS          = "mt_sics"
	DriverMTSICSImmediate = "mt_sics_immediate"
	DriverDigiDI160       = "digi_di160"
	DriverDPLPrinter      = "dpl"
)

// RegisterDefaultDrivers registers every driver shipped with the gateway.
// Net-weight and immediate-read protocol variants register as their own
// driver names; the DIGI DI-160 streams readings on its own, so it
// registers with no request command.
func RegisterDefaultDrivers(registry *Registry, p *pool.Pool, cfg *config.DeviceConfig, logger *zap.Logger) error {
	scales := []*Scale{
		NewScale(DriverTenzoM, tenzom.ReadGross, tenzom.Decode, p, cfg, logger),
		NewScale(DriverTenzoMNet, tenzom.ReadNet, tenzom.Decode, p, cfg, logger),
		NewScale(DriverMTSICS, mtsics.ReadGross, mtsics.Decode, p, cfg, logger),
		NewScale(DriverMTSICSImmediate, mtsics.ReadImmediate, mtsics.Decode, p, cfg, logger),
		NewScale(DriverDigiDI160, nil, digi.Decode, p, cfg, logger),
	}

	for _, s := range scales {
		if err := registry.RegisterScale(s); err != nil {
			return err
		}
	}

	return registry.RegisterPrinter(NewDPL(DriverDPLPrinter, dpl.DialectStandard, p, cfg, logger))
}
