package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/domain/appointments"
	"peluqueria-canina/internal/domain/catalog"
	"peluqueria-canina/internal/domain/checkout"
	"peluqueria-canina/internal/domain/clients"
	"peluqueria-canina/internal/domain/notes"
	"peluqueria-canina/internal/domain/staff"
	"peluqueria-canina/internal/domain/users"
)

// Tablas. Todos los tiempos se guardan en UTC.

type OwnerRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:100"`
	Phone     string `gorm:"size:50;index"`
	Address   string `gorm:"size:200"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OwnerRecord) TableName() string { return "owners" }

type DogRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"size:36;not null;index"`
	Name      string `gorm:"size:100;not null;index"`
	Breed     string `gorm:"size:100"`
	Notes     string `gorm:"type:text"`
	IsDeleted bool   `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner OwnerRecord `gorm:"foreignKey:OwnerID"`
}

func (DogRecord) TableName() string { return "dogs" }

type NoteRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	DogID     string    `gorm:"size:36;not null;index"`
	Note      string    `gorm:"type:text;not null"`
	Date      time.Time `gorm:"not null;index"`
	CreatedBy string    `gorm:"size:36"`

	Dog DogRecord `gorm:"foreignKey:DogID"`
}

func (NoteRecord) TableName() string { return "medical_notes" }

type CategoryRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:100;not null"`
	Description  string `gorm:"size:255"`
	DisplayOrder int    `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
}

func (CategoryRecord) TableName() string { return "service_categories" }

type SizeRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:50;not null"`
	DisplayOrder int    `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
}

func (SizeRecord) TableName() string { return "service_sizes" }

type ServiceRecord struct {
	ID              string          `gorm:"primaryKey;size:36"`
	CategoryID      string          `gorm:"size:36;not null;index"`
	SizeID          string          `gorm:"size:36;not null;index"`
	Description     string          `gorm:"size:255"`
	BasePrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DurationMinutes int             `gorm:"not null"`
	IsActive        bool            `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Category CategoryRecord `gorm:"foreignKey:CategoryID"`
	Size     SizeRecord     `gorm:"foreignKey:SizeID"`
}

func (ServiceRecord) TableName() string { return "services" }

type ItemRecord struct {
	ID        string          `gorm:"primaryKey;size:36"`
	Name      string          `gorm:"size:100;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive  bool            `gorm:"not null"`
	CreatedAt time.Time
}

func (ItemRecord) TableName() string { return "items" }

type ProfessionalRecord struct {
	ID                   string          `gorm:"primaryKey;size:36"`
	Name                 string          `gorm:"size:100;not null"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	IsActive             bool            `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (ProfessionalRecord) TableName() string { return "professionals" }

type UserRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserRecord) TableName() string { return "users" }

type AppointmentRecord struct {
	ID               string          `gorm:"primaryKey;size:36"`
	DogID            string          `gorm:"size:36;not null;index"`
	ServiceID        string          `gorm:"size:36;not null;index"`
	ProfessionalID   string          `gorm:"size:36;not null;index"`
	StartTime        time.Time       `gorm:"not null;index"`
	EndTime          time.Time       `gorm:"not null;index"`
	Description      string          `gorm:"size:200"`
	Color            string          `gorm:"size:20"`
	Status           string          `gorm:"size:20;not null;index"`
	IsDeleted        bool            `gorm:"not null;index"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountType     string          `gorm:"size:10"`
	DiscountValue    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Dog DogRecord `gorm:"foreignKey:DogID"`
}

func (AppointmentRecord) TableName() string { return "appointments" }

// AppointmentItemRecord es la tabla puente turno × item con el precio congelado.
type AppointmentItemRecord struct {
	AppointmentID string          `gorm:"primaryKey;size:36"`
	ItemID        string          `gorm:"primaryKey;size:36"`
	Name          string          `gorm:"size:100"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Appointment AppointmentRecord `gorm:"foreignKey:AppointmentID"`
}

func (AppointmentItemRecord) TableName() string { return "appointment_items" }

type PaymentRecord struct {
	ID            string          `gorm:"primaryKey;size:36"`
	AppointmentID string          `gorm:"size:36;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date          time.Time       `gorm:"not null;index"`
	Method        string          `gorm:"size:20;not null"`
	Type          string          `gorm:"size:10;not null"`
	Notes         string          `gorm:"type:text"`
	CreatedBy     string          `gorm:"size:36"`

	Appointment AppointmentRecord `gorm:"foreignKey:AppointmentID"`
}

func (PaymentRecord) TableName() string { return "payments" }

// Tables en orden de dependencia para AutoMigrate.
var Tables = []any{
	&OwnerRecord{},
	&DogRecord{},
	&NoteRecord{},
	&CategoryRecord{},
	&SizeRecord{},
	&ServiceRecord{},
	&ItemRecord{},
	&ProfessionalRecord{},
	&UserRecord{},
	&AppointmentRecord{},
	&AppointmentItemRecord{},
	&PaymentRecord{},
}

// --- conversiones ---

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func toOwnerRecord(o clients.Owner) OwnerRecord {
	return OwnerRecord{
		ID:        o.ID,
		Name:      o.Name,
		Phone:     o.Phone,
		Address:   o.Address,
		CreatedAt: utc(o.CreatedAt),
		UpdatedAt: utc(o.UpdatedAt),
	}
}

func fromOwnerRecord(r OwnerRecord) clients.Owner {
	return clients.Owner{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Address:   r.Address,
		CreatedAt: utc(r.CreatedAt),
		UpdatedAt: utc(r.UpdatedAt),
	}
}

func toDogRecord(d clients.Dog) DogRecord {
	return DogRecord{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Breed:     d.Breed,
		Notes:     d.Notes,
		IsDeleted: d.IsDeleted,
		CreatedAt: utc(d.CreatedAt),
		UpdatedAt: utc(d.UpdatedAt),
	}
}

func fromDogRecord(r DogRecord) clients.Dog {
	return clients.Dog{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		Breed:     r.Breed,
		Notes:     r.Notes,
		IsDeleted: r.IsDeleted,
		CreatedAt: utc(r.CreatedAt),
		UpdatedAt: utc(r.UpdatedAt),
		Owner:     fromOwnerRecord(r.Owner),
	}
}

func fromNoteRecord(r NoteRecord) notes.Note {
	return notes.Note{ID: r.ID, DogID: r.DogID, Text: r.Note, Date: utc(r.Date), CreatedBy: r.CreatedBy}
}

func fromCategoryRecord(r CategoryRecord) catalog.Category {
	return catalog.Category{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
		CreatedAt:    utc(r.CreatedAt),
	}
}

func toCategoryRecord(c catalog.Category) CategoryRecord {
	return CategoryRecord{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    utc(c.CreatedAt),
	}
}

func fromSizeRecord(r SizeRecord) catalog.Size {
	return catalog.Size{ID: r.ID, Name: r.Name, DisplayOrder: r.DisplayOrder, IsActive: r.IsActive, CreatedAt: utc(r.CreatedAt)}
}

func toSizeRecord(s catalog.Size) SizeRecord {
	return SizeRecord{ID: s.ID, Name: s.Name, DisplayOrder: s.DisplayOrder, IsActive: s.IsActive, CreatedAt: utc(s.CreatedAt)}
}

func fromServiceRecord(r ServiceRecord) catalog.Service {
	return catalog.Service{
		ID:              r.ID,
		CategoryID:      r.CategoryID,
		SizeID:          r.SizeID,
		Description:     r.Description,
		BasePrice:       r.BasePrice,
		DurationMinutes: r.DurationMinutes,
		IsActive:        r.IsActive,
		CreatedAt:       utc(r.CreatedAt),
		UpdatedAt:       utc(r.UpdatedAt),
		CategoryName:    r.Category.Name,
		SizeName:        r.Size.Name,
	}
}

func toServiceRecord(s catalog.Service) ServiceRecord {
	return ServiceRecord{
		ID:              s.ID,
		CategoryID:      s.CategoryID,
		SizeID:          s.SizeID,
		Description:     s.Description,
		BasePrice:       s.BasePrice,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
		CreatedAt:       utc(s.CreatedAt),
		UpdatedAt:       utc(s.UpdatedAt),
	}
}

func fromItemRecord(r ItemRecord) catalog.Item {
	return catalog.Item{ID: r.ID, Name: r.Name, Price: r.Price, IsActive: r.IsActive, CreatedAt: utc(r.CreatedAt)}
}

func toItemRecord(it catalog.Item) ItemRecord {
	return ItemRecord{ID: it.ID, Name: it.Name, Price: it.Price, IsActive: it.IsActive, CreatedAt: utc(it.CreatedAt)}
}

func fromProfessionalRecord(r ProfessionalRecord) staff.Professional {
	return staff.Professional{
		ID:                   r.ID,
		Name:                 r.Name,
		CommissionPercentage: r.CommissionPercentage,
		IsActive:             r.IsActive,
		CreatedAt:            utc(r.CreatedAt),
		UpdatedAt:            utc(r.UpdatedAt),
	}
}

func toProfessionalRecord(p staff.Professional) ProfessionalRecord {
	return ProfessionalRecord{
		ID:                   p.ID,
		Name:                 p.Name,
		CommissionPercentage: p.CommissionPercentage,
		IsActive:             p.IsActive,
		CreatedAt:            utc(p.CreatedAt),
		UpdatedAt:            utc(p.UpdatedAt),
	}
}

func fromUserRecord(r UserRecord) users.User {
	return users.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    utc(r.CreatedAt),
		UpdatedAt:    utc(r.UpdatedAt),
	}
}

func toAppointmentRecord(a appointments.Appointment) AppointmentRecord {
	return AppointmentRecord{
		ID:               a.ID,
		DogID:            a.DogID,
		ServiceID:        a.ServiceID,
		ProfessionalID:   a.ProfessionalID,
		StartTime:        utc(a.StartTime),
		EndTime:          utc(a.EndTime),
		Description:      a.Description,
		Color:            a.Color,
		Status:           string(a.Status),
		IsDeleted:        a.IsDeleted,
		TotalAmount:      a.TotalAmount,
		DiscountType:     string(a.DiscountType),
		DiscountValue:    a.DiscountValue,
		FinalPrice:       a.FinalPrice,
		CommissionAmount: a.CommissionAmount,
		CreatedAt:        utc(a.CreatedAt),
		UpdatedAt:        utc(a.UpdatedAt),
	}
}

func fromAppointmentRecord(r AppointmentRecord, lines []appointments.Line) appointments.Appointment {
	if lines == nil {
		lines = []appointments.Line{}
	}
	return appointments.Appointment{
		ID:               r.ID,
		DogID:            r.DogID,
		ServiceID:        r.ServiceID,
		ProfessionalID:   r.ProfessionalID,
		StartTime:        utc(r.StartTime),
		EndTime:          utc(r.EndTime),
		Description:      r.Description,
		Color:            r.Color,
		Status:           appointments.Status(r.Status),
		IsDeleted:        r.IsDeleted,
		TotalAmount:      r.TotalAmount,
		DiscountType:     appointments.DiscountType(r.DiscountType),
		DiscountValue:    r.DiscountValue,
		FinalPrice:       r.FinalPrice,
		CommissionAmount: r.CommissionAmount,
		Items:            lines,
		CreatedAt:        utc(r.CreatedAt),
		UpdatedAt:        utc(r.UpdatedAt),
		DogName:          r.Dog.Name,
	}
}

func toPaymentRecord(p checkout.Payment) PaymentRecord {
	return PaymentRecord{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		Amount:        p.Amount,
		Date:          utc(p.Date),
		Method:        string(p.Method),
		Type:          string(p.Type),
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
	}
}

func fromPaymentRecord(r PaymentRecord) checkout.Payment {
	return checkout.Payment{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		Amount:        r.Amount,
		Date:          utc(r.Date),
		Method:        checkout.Method(r.Method),
		Type:          checkout.Type(r.Type),
		Notes:         r.Notes,
		CreatedBy:     r.CreatedBy,
	}
}
