package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
	"github.com/mpue/factor/pkg/database"
)

// Seeder populates an empty database with a default invoice template and
// sample master data. All steps are idempotent.
type Seeder struct {
	db        *database.DB
	templates *repository.TemplateRepository
	logger    *zap.Logger
}

// NewSeeder creates a new database seeder
func NewSeeder(db *database.DB, templates *repository.TemplateRepository, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:        db,
		templates: templates,
		logger:    logger,
	}
}

// Run seeds default templates and sample data
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedDefaultTemplate(ctx); err != nil {
		return err
	}
	if err := s.seedSampleData(ctx); err != nil {
		return err
	}
	s.logger.Info("Database seeding completed")
	return nil
}

func (s *Seeder) seedDefaultTemplate(ctx context.Context) error {
	existing, err := s.templates.FindDefaultByType(ctx, entity.TemplateTypeInvoice)
	if err != nil {
		return fmt.Errorf("failed to check default template: %w", err)
	}
	if existing != nil {
		s.logger.Debug("Default invoice template already exists", zap.String("id", existing.ID))
		return nil
	}

	tmpl := &entity.InvoiceTemplate{
		Name:            "Standard Rechnungsvorlage",
		Description:     "Standard-Vorlage für Rechnungen mit allen wichtigen Feldern",
		TemplateContent: defaultInvoiceTemplate,
		TemplateType:    entity.TemplateTypeInvoice,
		IsDefault:       true,
	}
	created, err := s.templates.Create(ctx, tmpl)
	if err != nil {
		return fmt.Errorf("failed to seed default template: %w", err)
	}

	s.logger.Info("Default invoice template created", zap.String("id", created.ID))
	return nil
}

func (s *Seeder) seedSampleData(ctx context.Context) error {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count articles: %w", err)
	}
	if count > 0 {
		s.logger.Debug("Sample data already exists")
		return nil
	}

	articles := []struct {
		id       string
		name     string
		price    float64
		cost     float64
		stock    float64
		minStock float64
	}{
		{"article-1", "Laptop Dell XPS 13", 1299.99, 899.99, 15, 5},
		{"article-2", "Monitor 27\" 4K", 449.99, 299.99, 8, 3},
		{"article-3", "Tastatur mechanisch", 129.99, 79.99, 25, 10},
		{"article-4", "Maus Logitech MX Master", 89.99, 59.99, 20, 8},
	}
	for _, a := range articles {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO articles (id, name, price, cost, stock, min_stock)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.id, a.name, a.price, a.cost, a.stock, a.minStock)
		if err != nil {
			return fmt.Errorf("failed to seed article %s: %w", a.id, err)
		}
	}

	customers := []struct {
		id      string
		company string
		contact string
		street  string
		city    string
		phone   string
		email   string
	}{
		{"customer-1", "Tech Solutions GmbH", "Max Mustermann", "Hauptstraße 123", "10115 Berlin", "+49 30 12345678", "max@techsolutions.de"},
		{"customer-2", "Digital Services AG", "Anna Schmidt", "Königsallee 45", "40212 Düsseldorf", "+49 211 87654321", "anna@digitalservices.de"},
	}
	for _, c := range customers {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO customers (id, company, contact, street, city, phone, email)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, c.id, c.company, c.contact, c.street, c.city, c.phone, c.email)
		if err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", c.id, err)
		}
	}

	s.logger.Info("Sample data created",
		zap.Int("articles", len(articles)),
		zap.Int("customers", len(customers)))
	return nil
}

const defaultInvoiceTemplate = `# Rechnung Nr. {{invoice.invoiceNumber}}

**{{company.name}}**
{{company.street}}
{{company.city}}
Telefon: {{company.phone}}
E-Mail: {{company.email}}

---

**Kunde:**
{{customer.company}}
{{customer.contact}}
{{customer.street}}
{{customer.city}}

---

**Rechnungsdatum:** {{invoice.dateFormatted}}
**Fälligkeitsdatum:** {{invoice.dueDateFormatted}}

---

## Positionen

| Artikel | Menge | Einzelpreis | Gesamtpreis |
|---------|-------|-------------|-------------|
{{#positions}}
| {{articleName}} | {{quantity}} | {{unitPriceFormatted}} | {{totalPriceFormatted}} |
{{/positions}}

---

**Gesamtbetrag:** {{invoice.totalAmountFormatted}}

Vielen Dank für Ihren Auftrag!`
