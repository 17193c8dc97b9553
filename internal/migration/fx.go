package migration

import (
	"github.com/finbooks/salesdesk/internal/audit"
	authdomain "github.com/finbooks/salesdesk/internal/auth/domain"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/internal/config"
	costsheetdomain "github.com/finbooks/salesdesk/internal/costsheet/domain"
	invoicedomain "github.com/finbooks/salesdesk/internal/invoice/domain"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	receiptdomain "github.com/finbooks/salesdesk/internal/receipt/domain"
	"github.com/finbooks/salesdesk/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql rely on gorm's schema builder; the
			// versioned SQL is written for postgres.
			if err := conn.AutoMigrate(
				&leaddomain.Lead{},
				&costsheetdomain.CostSheet{},
				&costsheetdomain.LicenseItem{},
				&costsheetdomain.ServiceImplementationItem{},
				&costsheetdomain.ServiceSupportItem{},
				&costsheetdomain.InfrastructureItem{},
				&costsheetdomain.OtherItem{},
				&costsheetdomain.Attachment{},
				&invoicedomain.Invoice{},
				&bankconndomain.BankConnection{},
				&banktxdomain.BankTransaction{},
				&receiptdomain.ReceiptVoucher{},
				&receiptdomain.ReceiptAdjustment{},
				&receiptdomain.ReceiptAttachment{},
				&authdomain.User{},
				&authdomain.Group{},
				&authdomain.Session{},
				&audit.Entry{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureBootstrapData(conn)
	}),
)
