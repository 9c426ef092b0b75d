// Package seed loads the reference users, ministries and demo solicitudes.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"iglesia360/internal/model"
	"iglesia360/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the login password of every seeded user
const DefaultPassword = "password"

const day = 24 * time.Hour

type Repositories struct {
	Users       repository.UserRepository
	Ministries  repository.MinistryRepository
	Solicitudes repository.SolicitudRepository
}

// Run seeds each collection that is still empty, so it is safe to call on
// every start. now anchors the relative dates of the demo data.
func Run(ctx context.Context, repos Repositories, now time.Time) error {
	if err := seedUsers(ctx, repos.Users, now); err != nil {
		return err
	}
	if err := seedMinistries(ctx, repos.Ministries, now); err != nil {
		return err
	}
	return seedSolicitudes(ctx, repos.Solicitudes, now)
}

func seedUsers(ctx context.Context, repo repository.UserRepository, now time.Time) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if total > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, u := range Users() {
		u.Password = string(hash)
		u.CreatedAt, u.UpdatedAt = now, now
		if err := repo.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	log.Printf("Seeded %d users", len(Users()))
	return nil
}

func seedMinistries(ctx context.Context, repo repository.MinistryRepository, now time.Time) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count ministries: %w", err)
	}
	if total > 0 {
		return nil
	}

	for _, m := range Ministries() {
		m.CreatedAt, m.UpdatedAt = now, now
		if err := repo.Create(ctx, &m); err != nil {
			return fmt.Errorf("seed ministry %s: %w", m.Code, err)
		}
	}
	log.Printf("Seeded %d ministries", len(Ministries()))
	return nil
}

func seedSolicitudes(ctx context.Context, repo repository.SolicitudRepository, now time.Time) error {
	existing, err := repo.FindAll(ctx, model.SolicitudFilter{})
	if err != nil {
		return fmt.Errorf("list solicitudes: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	demo := Solicitudes(now)
	for i := range demo {
		if err := repo.Insert(ctx, &demo[i]); err != nil {
			return fmt.Errorf("seed solicitud %q: %w", demo[i].Title, err)
		}
	}
	log.Printf("Seeded %d solicitudes", len(demo))
	return nil
}

// Users returns the reference users in id order
func Users() []model.User {
	return []model.User{
		{Email: "admin@iglesia360.com", Name: "Juan García", Phone: "+34 666 111 111", Status: model.UserActive, Roles: model.Roles{model.RoleAdmin}},
		{Email: "tesorero@iglesia360.com", Name: "María López", Phone: "+34 666 222 222", Status: model.UserActive, Roles: model.Roles{model.RoleTesorero}},
		{Email: "pastor@iglesia360.com", Name: "Carlos Rodríguez", Phone: "+34 666 333 333", Status: model.UserActive, Roles: model.Roles{model.RolePastorGeneral}},
		{Email: "pastor_red1@iglesia360.com", Name: "Ana Martínez", Phone: "+34 666 444 444", Status: model.UserActive, Roles: model.Roles{model.RolePastorRed}},
		{Email: "miembro1@iglesia360.com", Name: "Pedro Sánchez", Phone: "+34 666 555 555", Status: model.UserActive, Roles: model.Roles{model.RoleUsuario}},
		{Email: "miembro2@iglesia360.com", Name: "Rosa González", Phone: "+34 666 666 666", Status: model.UserActive, Roles: model.Roles{model.RoleUsuario}},
	}
}

// Ministries returns the reference ministries in id order
func Ministries() []model.Ministry {
	ministry := func(code, name, description string, responsible uint, budget int64) model.Ministry {
		return model.Ministry{
			Code:              code,
			Name:              name,
			Description:       description,
			ResponsibleUserID: responsible,
			BudgetLimit:       decimal.NewFromInt(budget),
			Currency:          "PEN",
			Status:            model.MinistryActive,
		}
	}
	return []model.Ministry{
		ministry("MIN001", "Ministerio de Alabanza", "Responsable de la música y adoración", 4, 5000),
		ministry("MIN002", "Ministerio de Jóvenes", "Actividades y discipulado de jóvenes", 4, 8000),
		ministry("MIN003", "Ministerio de Niños", "Cuidado y educación de niños", 5, 6000),
		ministry("MIN004", "Ministerio de Obras Sociales", "Ayuda a la comunidad", 6, 10000),
		ministry("MIN005", "Ministerio de Misiones", "Actividades misioneras y evangelismo", 3, 15000),
	}
}

func item(description string, amount, quantity int64, unitPrice string) model.SolicitudItem {
	q := decimal.NewFromInt(quantity)
	it := model.SolicitudItem{Description: description, Amount: decimal.NewFromInt(amount), Quantity: &q}
	if unitPrice != "" {
		u := decimal.RequireFromString(unitPrice)
		it.UnitPrice = &u
	}
	return it
}

type approvalSeed struct {
	approver uint
	name     string
	status   model.ApprovalStatus
	ago      time.Duration
	comments string
}

func chain(now time.Time, steps ...approvalSeed) []model.ApprovalInfo {
	out := make([]model.ApprovalInfo, len(steps))
	for i, st := range steps {
		a := model.ApprovalInfo{
			ApproverUserID:   st.approver,
			ApproverName:     st.name,
			ApprovalOrder:    i + 1,
			Status:           st.status,
			RequiredApproval: true,
			Comments:         st.comments,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if st.status != model.ApprovalPendiente {
			when := now.Add(-st.ago)
			a.ApprovalDate = &when
			a.UpdatedAt = when
		}
		out[i] = a
	}
	return out
}

func at(now time.Time, ago time.Duration) *time.Time {
	t := now.Add(-ago)
	return &t
}

// Solicitudes returns the demo solicitudes SOL001..SOL006, dated relative to now
func Solicitudes(now time.Time) []model.Solicitud {
	type demo struct {
		s       model.Solicitud
		items   []model.SolicitudItem
		created time.Duration
		updated time.Duration
	}

	demos := []demo{
		{
			s: model.Solicitud{
				MinistryID: 1, MinistryName: "Ministerio de Alabanza",
				RequesterUserID: 5, RequesterName: "Pedro Sánchez",
				ResponsibleUserID: 4, ResponsibleName: "Ana Martínez",
				Title:         "Equipos de sonido para alabanza",
				Description:   "Compra de micrófono inalámbrico, amplificador y cables de audio de alta calidad para mejorar la calidad de sonido en los servicios.",
				Status:        model.StatusBorrador,
				PaymentDetail: "Pagar a proveedor TechSound Inc.",
			},
			items: []model.SolicitudItem{
				item("Micrófono inalámbrico profesional", 800, 2, "400"),
				item("Amplificador de audio 500W", 1200, 1, "1200"),
				item("Cables de audio y conectores", 500, 5, "100"),
			},
			created: 30 * day, updated: 30 * day,
		},
		{
			s: model.Solicitud{
				MinistryID: 2, MinistryName: "Ministerio de Jóvenes",
				RequesterUserID: 5, RequesterName: "Pedro Sánchez",
				ResponsibleUserID: 4, ResponsibleName: "Ana Martínez",
				Title:         "Retiro de jóvenes verano 2024",
				Description:   "Viaje de campamento para jóvenes incluyendo transporte, alojamiento y comidas para 40 personas.",
				Status:        model.StatusPendiente,
				PaymentDetail: "Pagar a empresa de turismo Valle Bonito",
				SubmittedAt:   at(now, 20*day),
				Approvals: chain(now,
					approvalSeed{approver: 4, name: "Ana Martínez", status: model.ApprovalPendiente},
					approvalSeed{approver: 2, name: "María López", status: model.ApprovalPendiente},
				),
			},
			items: []model.SolicitudItem{
				item("Transporte en autobús (4 buses)", 2000, 4, "500"),
				item("Alojamiento (2 noches)", 1800, 40, "45"),
				item("Comidas (desayuno, almuerzo, cena)", 700, 40, "17.5"),
			},
			created: 20 * day, updated: 20 * day,
		},
		{
			s: model.Solicitud{
				MinistryID: 3, MinistryName: "Ministerio de Niños",
				RequesterUserID: 6, RequesterName: "Rosa González",
				ResponsibleUserID: 4, ResponsibleName: "Ana Martínez",
				Title:         "Material didáctico para niños",
				Description:   "Libros de colorear, juguetes educativos y materiales para las lecciones bíblicas semanales.",
				Status:        model.StatusEnRevision,
				PaymentDetail: "Pagar a Editorial Infantil Cristiana",
				SubmittedAt:   at(now, 16*day),
				Approvals: chain(now,
					approvalSeed{approver: 4, name: "Ana Martínez", status: model.ApprovalAprobado, ago: 10 * day, comments: "Aprobado por pastor de red"},
					approvalSeed{approver: 2, name: "María López", status: model.ApprovalPendiente},
				),
			},
			items: []model.SolicitudItem{
				item("Libros de colorear cristianos", 600, 3, "200"),
				item("Juguetes educativos variados", 800, 2, "400"),
				item("Material para manualidades", 400, 1, "400"),
			},
			created: 16 * day, updated: 16 * day,
		},
		{
			s: model.Solicitud{
				MinistryID: 4, MinistryName: "Ministerio de Obras Sociales",
				RequesterUserID: 5, RequesterName: "Pedro Sánchez",
				ResponsibleUserID: 6, ResponsibleName: "Rosa González",
				Title:         "Kits de alimentos para familias en necesidad",
				Description:   "Distribución de paquetes de alimentos básicos a 30 familias de la comunidad durante el mes.",
				Status:        model.StatusAprobado,
				PaymentDetail: "Pagar a proveedor local de alimentos",
				SubmittedAt:   at(now, 7*day),
				Approvals: chain(now,
					approvalSeed{approver: 6, name: "Rosa González", status: model.ApprovalAprobado, ago: 6 * day, comments: "Aprobado por responsable de ministerio"},
					approvalSeed{approver: 2, name: "María López", status: model.ApprovalAprobado, ago: 6 * day, comments: "Aprobado por tesorero con observaciones sobre presupuesto"},
				),
			},
			// a lump sum, the unit price is not exact
			items: []model.SolicitudItem{
				item("Paquetes básicos de alimentos", 3200, 30, ""),
			},
			created: 7 * day, updated: 6 * day,
		},
		{
			s: model.Solicitud{
				MinistryID: 5, MinistryName: "Ministerio de Misiones",
				RequesterUserID: 6, RequesterName: "Rosa González",
				ResponsibleUserID: 3, ResponsibleName: "Carlos Rodríguez",
				Title:         "Viaje misionero a región rural",
				Description:   "Viaje de evangelismo y construcción de una pequeña capilla en zona rural. Incluye transporte, alojamiento y materiales de construcción.",
				Status:        model.StatusAprobado,
				PaymentDetail: "Pagar a coordinador de misiones",
				SubmittedAt:   at(now, 5*day),
				Approvals: chain(now,
					approvalSeed{approver: 4, name: "Ana Martínez", status: model.ApprovalAprobado, ago: 4 * day, comments: "Aprobado por pastor de red"},
					approvalSeed{approver: 3, name: "Carlos Rodríguez", status: model.ApprovalAprobado, ago: 4 * day, comments: "Aprobado por pastor general - proyecto importante"},
					approvalSeed{approver: 2, name: "María López", status: model.ApprovalAprobado, ago: 4 * day, comments: "Aprobado por tesorero"},
				),
			},
			items: []model.SolicitudItem{
				item("Transporte", 2000, 1, "2000"),
				item("Alojamiento y comidas", 2500, 1, "2500"),
				item("Materiales de construcción", 2000, 1, "2000"),
			},
			created: 5 * day, updated: 4 * day,
		},
		{
			s: model.Solicitud{
				MinistryID: 1, MinistryName: "Ministerio de Alabanza",
				RequesterUserID: 5, RequesterName: "Pedro Sánchez",
				ResponsibleUserID: 4, ResponsibleName: "Ana Martínez",
				Title:         "Reparación de instrumentos musicales",
				Description:   "Mantenimiento y reparación de órgano, guitarras y batería de la iglesia.",
				Status:        model.StatusCompletado,
				PaymentDetail: "Pagar a taller de reparaciones Harmonia",
				SubmittedAt:   at(now, 4*day),
				CompletedAt:   at(now, 2*day),
				Approvals: chain(now,
					approvalSeed{approver: 4, name: "Ana Martínez", status: model.ApprovalAprobado, ago: 3 * day},
					approvalSeed{approver: 2, name: "María López", status: model.ApprovalAprobado, ago: 3 * day},
				),
			},
			items: []model.SolicitudItem{
				item("Reparación y mantenimiento de instrumentos", 1200, 1, "1200"),
			},
			created: 4 * day, updated: 2 * day,
		},
	}

	out := make([]model.Solicitud, len(demos))
	for i, d := range demos {
		s := d.s
		s.Currency = "USD"
		s.PaymentType = model.PaymentTerceros
		s.CreatedAt = now.Add(-d.created)
		s.UpdatedAt = now.Add(-d.updated)
		s.Attachments = []model.Attachment{}
		if s.Approvals == nil {
			s.Approvals = []model.ApprovalInfo{}
		}
		s.SetItems(d.items)
		out[i] = s
	}
	return out
}
