package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hackgods/clinic-booking-scheduler/internal/db"
	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

type PgRepository struct {
	pool db.DBTX
}

func NewPgRepository(pool db.DBTX) *PgRepository {
	if pool == nil {
		panic("directory: pgx pool required")
	}
	return &PgRepository{pool: pool}
}

// Helpers

func label(en, vi *string) *Label {
	if en == nil && vi == nil {
		return nil
	}
	l := &Label{}
	if en != nil {
		l.ValueEn = *en
	}
	if vi != nil {
		l.ValueVi = *vi
	}
	return l
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const doctorColumns = `
	u.id, u.email, u.first_name, u.last_name, u.address, u.phone_number, u.gender, u.position_id, u.image, u.created_at,
	pos.value_en, pos.value_vi, gen.value_en, gen.value_vi`

const doctorJoins = `
	LEFT JOIN allcodes pos ON pos.key_map = u.position_id
	LEFT JOIN allcodes gen ON gen.key_map = u.gender`

func scanDoctor(row pgx.Row, extra ...any) (*Doctor, error) {
	var d Doctor
	var email, first, last, address, phone, gender, position, image *string
	var posEn, posVi, genEn, genVi *string
	var createdAt time.Time

	dest := []any{
		&d.ID, &email, &first, &last, &address, &phone, &gender, &position, &image, &createdAt,
		&posEn, &posVi, &genEn, &genVi,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	d.Email = deref(email)
	d.FirstName = deref(first)
	d.LastName = deref(last)
	d.Address = deref(address)
	d.PhoneNumber = deref(phone)
	d.Gender = deref(gender)
	d.PositionID = deref(position)
	d.Image = deref(image)
	d.CreatedAt = &createdAt
	d.PositionData = label(posEn, posVi)
	d.GenderData = label(genEn, genVi)
	return &d, nil
}

// Interface methods

func (r *PgRepository) ScheduleByDate(ctx context.Context, doctorID uuid.UUID, date schedule.Date) ([]ScheduleEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.doctor_id, s.date, s.time_type, s.max_number, s.current_number,
		       COALESCE(t.value_en, ''), COALESCE(t.value_vi, ''),
		       COALESCE(u.first_name, ''), COALESCE(u.last_name, '')
		FROM schedules s
		LEFT JOIN allcodes t ON t.key_map = s.time_type
		LEFT JOIN users u ON u.id = s.doctor_id
		WHERE s.doctor_id = $1 AND s.date = $2
		ORDER BY s.time_type
	`, doctorID, int64(date))
	if err != nil {
		return nil, fmt.Errorf("query schedule by date: %w", err)
	}
	defer rows.Close()

	result := []ScheduleEntry{}
	for rows.Next() {
		var e ScheduleEntry
		var d int64
		if err := rows.Scan(
			&e.ID, &e.DoctorID, &d, &e.TimeType, &e.MaxNumber, &e.CurrentNumber,
			&e.TimeTypeData.ValueEn, &e.TimeTypeData.ValueVi,
			&e.DoctorData.FirstName, &e.DoctorData.LastName,
		); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		e.Date = schedule.Date(d)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) ConfirmedPatients(ctx context.Context, doctorID uuid.UUID, date schedule.Date) ([]PatientBooking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.doctor_id, b.patient_id, b.date, b.time_type, b.status_id,
		       COALESCE(p.email, ''), COALESCE(p.first_name, ''), COALESCE(p.last_name, ''),
		       COALESCE(p.address, ''), COALESCE(p.gender, ''),
		       COALESCE(g.value_en, ''), COALESCE(g.value_vi, ''),
		       COALESCE(t.value_en, ''), COALESCE(t.value_vi, '')
		FROM bookings b
		JOIN users p ON p.id = b.patient_id
		LEFT JOIN allcodes g ON g.key_map = p.gender
		LEFT JOIN allcodes t ON t.key_map = b.time_type
		WHERE b.status_id = 'S2' AND b.doctor_id = $1 AND b.date = $2
		ORDER BY b.time_type, b.created_at
	`, doctorID, int64(date))
	if err != nil {
		return nil, fmt.Errorf("query confirmed patients: %w", err)
	}
	defer rows.Close()

	result := []PatientBooking{}
	for rows.Next() {
		var b PatientBooking
		var d int64
		if err := rows.Scan(
			&b.ID, &b.DoctorID, &b.PatientID, &d, &b.TimeType, &b.StatusID,
			&b.PatientData.Email, &b.PatientData.FirstName, &b.PatientData.LastName,
			&b.PatientData.Address, &b.PatientData.Gender,
			&b.PatientData.GenderData.ValueEn, &b.PatientData.GenderData.ValueVi,
			&b.TimeTypeData.ValueEn, &b.TimeTypeData.ValueVi,
		); err != nil {
			return nil, fmt.Errorf("scan patient booking: %w", err)
		}
		b.Date = schedule.Date(d)
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DoctorDetail looks the user up by id alone, whatever the role.
func (r *PgRepository) DoctorDetail(ctx context.Context, id uuid.UUID) (*DoctorDetail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`,
		       md.description, md.content_html, md.content_markdown,
		       di.doctor_id, di.price_id, di.province_id, di.payment_id, di.address_clinic, di.name_clinic,
		       di.note, di.specialty_id, di.clinic_id, di.count,
		       pr.value_en, pr.value_vi, pv.value_en, pv.value_vi, pm.value_en, pm.value_vi
		FROM users u`+doctorJoins+`
		LEFT JOIN markdowns md ON md.doctor_id = u.id
		LEFT JOIN doctor_info di ON di.doctor_id = u.id
		LEFT JOIN allcodes pr ON pr.key_map = di.price_id
		LEFT JOIN allcodes pv ON pv.key_map = di.province_id
		LEFT JOIN allcodes pm ON pm.key_map = di.payment_id
		WHERE u.id = $1
	`, id)

	var mdDesc, mdHTML, mdMarkdown *string
	var infoDoctor *uuid.UUID
	var price, province, payment, addr, clinicName, note, specialty, clinic *string
	var count *int
	var prEn, prVi, pvEn, pvVi, pmEn, pmVi *string

	doc, err := scanDoctor(row,
		&mdDesc, &mdHTML, &mdMarkdown,
		&infoDoctor, &price, &province, &payment, &addr, &clinicName,
		&note, &specialty, &clinic, &count,
		&prEn, &prVi, &pvEn, &pvVi, &pmEn, &pmVi,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	detail := &DoctorDetail{Doctor: *doc}
	if mdDesc != nil || mdHTML != nil || mdMarkdown != nil {
		detail.Markdown = &Markdown{
			Description:     deref(mdDesc),
			ContentHTML:     deref(mdHTML),
			ContentMarkdown: deref(mdMarkdown),
		}
	}
	if infoDoctor != nil {
		info := &DoctorInfo{
			PriceID:          deref(price),
			ProvinceID:       deref(province),
			PaymentID:        deref(payment),
			AddressClinic:    deref(addr),
			NameClinic:       deref(clinicName),
			Note:             deref(note),
			SpecialtyID:      deref(specialty),
			ClinicID:         deref(clinic),
			PriceTypeData:    label(prEn, prVi),
			ProvinceTypeData: label(pvEn, pvVi),
			PaymentTypeData:  label(pmEn, pmVi),
		}
		if count != nil {
			info.Count = *count
		}
		detail.DoctorInfo = info
	}
	return detail, nil
}

func (r *PgRepository) DoctorInfo(ctx context.Context, doctorID uuid.UUID) (*DoctorInfo, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT di.price_id, di.province_id, di.payment_id, di.address_clinic, di.name_clinic,
		       di.note, di.specialty_id, di.clinic_id, di.count,
		       pr.value_en, pr.value_vi, pv.value_en, pv.value_vi, pm.value_en, pm.value_vi
		FROM doctor_info di
		LEFT JOIN allcodes pr ON pr.key_map = di.price_id
		LEFT JOIN allcodes pv ON pv.key_map = di.province_id
		LEFT JOIN allcodes pm ON pm.key_map = di.payment_id
		WHERE di.doctor_id = $1
	`, doctorID)

	var info DoctorInfo
	var clinicName *string
	var prEn, prVi, pvEn, pvVi, pmEn, pmVi *string
	err := row.Scan(
		&info.PriceID, &info.ProvinceID, &info.PaymentID, &info.AddressClinic, &clinicName,
		&info.Note, &info.SpecialtyID, &info.ClinicID, &info.Count,
		&prEn, &prVi, &pvEn, &pvVi, &pmEn, &pmVi,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorInfoNotFound
		}
		return nil, err
	}

	info.NameClinic = deref(clinicName)
	info.PriceTypeData = label(prEn, prVi)
	info.ProvinceTypeData = label(pvEn, pvVi)
	info.PaymentTypeData = label(pmEn, pmVi)
	return &info, nil
}

func (r *PgRepository) TopDoctors(ctx context.Context, limit int) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM users u`+doctorJoins+`
		WHERE u.role_id = 'R2'
		ORDER BY u.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top doctors: %w", err)
	}
	return collectDoctors(rows)
}

func (r *PgRepository) AllDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM users u`+doctorJoins+`
		WHERE u.role_id = 'R2'
		ORDER BY u.last_name, u.first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	doctors, err := collectDoctors(rows)
	if err != nil {
		return nil, err
	}
	// The full listing never ships images.
	for i := range doctors {
		doctors[i].Image = ""
	}
	return doctors, nil
}

func collectDoctors(rows pgx.Rows) ([]Doctor, error) {
	defer rows.Close()

	result := []Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpsertDoctorInfo writes doctor info and the profile markdown together.
func (r *PgRepository) UpsertDoctorInfo(ctx context.Context, in SaveDoctorInfoInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert doctor info: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO doctor_info (doctor_id, price_id, province_id, payment_id, address_clinic, name_clinic,
		                         note, specialty_id, clinic_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (doctor_id) DO UPDATE
		SET price_id = EXCLUDED.price_id,
		    province_id = EXCLUDED.province_id,
		    payment_id = EXCLUDED.payment_id,
		    address_clinic = EXCLUDED.address_clinic,
		    name_clinic = EXCLUDED.name_clinic,
		    note = EXCLUDED.note,
		    specialty_id = EXCLUDED.specialty_id,
		    clinic_id = EXCLUDED.clinic_id,
		    updated_at = now()
	`, in.DoctorID, in.PriceID, in.ProvinceID, in.PaymentID, in.AddressClinic, in.NameClinic,
		in.Note, in.SpecialtyID, in.ClinicID)
	if err != nil {
		return fmt.Errorf("upsert doctor info: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO markdowns (doctor_id, description, content_html, content_markdown, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (doctor_id) DO UPDATE
		SET description = EXCLUDED.description,
		    content_html = EXCLUDED.content_html,
		    content_markdown = EXCLUDED.content_markdown,
		    updated_at = now()
	`, in.DoctorID, in.Description, in.ContentHTML, in.ContentMarkdown)
	if err != nil {
		return fmt.Errorf("upsert markdown: %w", err)
	}

	return tx.Commit(ctx)
}
