// Package store persists stakeholder versions in PostgreSQL. Rows are
// append-only: every write inserts a new (id, version_id) row and reads
// resolve to the greatest version per id.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
	"github.com/Mloh16/food-oasis/pkg/platform/sentinel"
)

// Postgres is the production stakeholder store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed stakeholder store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// versionColumns selects every stakeholder_version column against the "cur"
// alias, in the order scanVersion consumes them.
const versionColumns = `
	cur.id, cur.version_id, cur.name, cur.address_1, cur.address_2,
	cur.city, cur.state, cur.zip, cur.phone, cur.email,
	cur.latitude, cur.longitude, cur.website,
	cur.notes, cur.requirements, cur.admin_notes, cur.parent_organization,
	cur.physical_access, cur.items, cur.services, cur.description,
	cur.covid_notes, cur.category_notes, cur.eligibility_notes,
	cur.food_types, cur.languages,
	cur.facebook, cur.twitter, cur.pinterest, cur.linkedin, cur.instagram,
	cur.admin_contact_name, cur.admin_contact_phone, cur.admin_contact_email,
	cur.donation_contact_name, cur.donation_contact_phone, cur.donation_contact_email,
	cur.donation_pickup, cur.donation_accept_frozen, cur.donation_accept_refrigerated,
	cur.donation_accept_perishable, cur.donation_schedule,
	cur.donation_delivery_instructions, cur.donation_notes,
	cur.created_date, cur.created_login_id, cur.modified_date, cur.modified_login_id,
	cur.submitted_date, cur.submitted_login_id, cur.approved_date, cur.rejected_date,
	cur.reviewed_login_id, cur.assigned_date, cur.assigned_login_id,
	cur.claimed_date, cur.claimed_login_id,
	cur.verified_date, cur.verified_login_id,
	cur.review_notes, cur.verification_status_id, cur.inactive, cur.inactive_temporary,
	cur.v_name, cur.v_categories, cur.v_address, cur.v_phone, cur.v_email, cur.v_hours,
	COALESCE(l1.first_name || ' ' || l1.last_name, '') AS created_user,
	COALESCE(l2.first_name || ' ' || l2.last_name, '') AS modified_user,
	COALESCE(l3.first_name || ' ' || l3.last_name, '') AS submitted_user,
	COALESCE(l4.first_name || ' ' || l4.last_name, '') AS reviewed_user,
	COALESCE(l5.first_name || ' ' || l5.last_name, '') AS assigned_user,
	COALESCE(l6.first_name || ' ' || l6.last_name, '') AS claimed_user`

const loginJoins = `
	LEFT JOIN login l1 ON cur.created_login_id = l1.id
	LEFT JOIN login l2 ON cur.modified_login_id = l2.id
	LEFT JOIN login l3 ON cur.submitted_login_id = l3.id
	LEFT JOIN login l4 ON cur.reviewed_login_id = l4.id
	LEFT JOIN login l5 ON cur.assigned_login_id = l5.id
	LEFT JOIN login l6 ON cur.claimed_login_id = l6.id`

// currentVersions resolves the latest version row per logical id.
const currentVersions = `
	(SELECT DISTINCT ON (id) * FROM stakeholder_version ORDER BY id, version_id DESC) cur`

// currentVersionOf locates the latest version id of one stakeholder, used by
// the partial-update transitions so they only ever touch the current row.
const currentVersionOf = `(SELECT MAX(version_id) FROM stakeholder_version WHERE id = $1)`

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(row scanner) (*models.StakeholderVersion, error) {
	var (
		v models.StakeholderVersion

		address1, address2, city, state, zip       sql.NullString
		phone, email, website                      sql.NullString
		latitude, longitude                        sql.NullFloat64
		notes, requirements, adminNotes            sql.NullString
		parentOrganization, physicalAccess         sql.NullString
		items, services, description               sql.NullString
		covidNotes, categoryNotes, eligibility     sql.NullString
		foodTypes, languages                       sql.NullString
		facebook, twitter, pinterest               sql.NullString
		linkedin, instagram                        sql.NullString
		adminName, adminPhone, adminEmail          sql.NullString
		donName, donPhone, donEmail                sql.NullString
		donPickup, donFrozen, donRefrig, donPerish sql.NullBool
		donSchedule, donInstructions, donNotes     sql.NullString

		createdDate, modifiedDate, submittedDate sql.NullTime
		approvedDate, rejectedDate, assignedDate sql.NullTime
		claimedDate, verifiedDate                sql.NullTime
		createdLogin, modifiedLogin              sql.NullInt64
		submittedLogin, reviewedLogin            sql.NullInt64
		assignedLogin, claimedLogin              sql.NullInt64
		verifiedLogin                            sql.NullInt64

		reviewNotes                        sql.NullString
		statusID                           sql.NullInt64
		inactive, inactiveTemporary        sql.NullBool
		vName, vCategories, vAddr          sql.NullBool
		vPhone, vEmail, vHours             sql.NullBool
		createdUser, modifiedUser          string
		submittedUser, reviewedUser        string
		assignedUser, claimedUser          string
	)

	err := row.Scan(
		&v.ID, &v.VersionID, &v.Name, &address1, &address2,
		&city, &state, &zip, &phone, &email,
		&latitude, &longitude, &website,
		&notes, &requirements, &adminNotes, &parentOrganization,
		&physicalAccess, &items, &services, &description,
		&covidNotes, &categoryNotes, &eligibility,
		&foodTypes, &languages,
		&facebook, &twitter, &pinterest, &linkedin, &instagram,
		&adminName, &adminPhone, &adminEmail,
		&donName, &donPhone, &donEmail,
		&donPickup, &donFrozen, &donRefrig,
		&donPerish, &donSchedule,
		&donInstructions, &donNotes,
		&createdDate, &createdLogin, &modifiedDate, &modifiedLogin,
		&submittedDate, &submittedLogin, &approvedDate, &rejectedDate,
		&reviewedLogin, &assignedDate, &assignedLogin,
		&claimedDate, &claimedLogin,
		&verifiedDate, &verifiedLogin,
		&reviewNotes, &statusID, &inactive, &inactiveTemporary,
		&vName, &vCategories, &vAddr, &vPhone, &vEmail, &vHours,
		&createdUser, &modifiedUser, &submittedUser,
		&reviewedUser, &assignedUser, &claimedUser,
	)
	if err != nil {
		return nil, err
	}

	v.Address1 = address1.String
	v.Address2 = address2.String
	v.City = city.String
	v.State = state.String
	v.Zip = zip.String
	v.Phone = phone.String
	v.Email = email.String
	v.Website = website.String
	v.Latitude = nullFloat(latitude)
	v.Longitude = nullFloat(longitude)
	v.Notes = notes.String
	v.Requirements = requirements.String
	v.AdminNotes = adminNotes.String
	v.ParentOrganization = parentOrganization.String
	v.PhysicalAccess = physicalAccess.String
	v.Items = items.String
	v.Services = services.String
	v.Description = description.String
	v.CovidNotes = covidNotes.String
	v.CategoryNotes = categoryNotes.String
	v.EligibilityNotes = eligibility.String
	v.FoodTypes = foodTypes.String
	v.Languages = languages.String
	v.Facebook = facebook.String
	v.Twitter = twitter.String
	v.Pinterest = pinterest.String
	v.LinkedIn = linkedin.String
	v.Instagram = instagram.String
	v.AdminContactName = adminName.String
	v.AdminContactPhone = adminPhone.String
	v.AdminContactEmail = adminEmail.String
	v.DonationContactName = donName.String
	v.DonationContactPhone = donPhone.String
	v.DonationContactEmail = donEmail.String
	v.DonationPickup = donPickup.Bool
	v.DonationAcceptFrozen = donFrozen.Bool
	v.DonationAcceptRefrigerated = donRefrig.Bool
	v.DonationAcceptPerishable = donPerish.Bool
	v.DonationSchedule = donSchedule.String
	v.DonationDeliveryInstructions = donInstructions.String
	v.DonationNotes = donNotes.String
	v.CreatedDate = nullTime(createdDate)
	v.CreatedLoginID = nullInt(createdLogin)
	v.ModifiedDate = nullTime(modifiedDate)
	v.ModifiedLoginID = nullInt(modifiedLogin)
	v.SubmittedDate = nullTime(submittedDate)
	v.SubmittedLoginID = nullInt(submittedLogin)
	v.ApprovedDate = nullTime(approvedDate)
	v.RejectedDate = nullTime(rejectedDate)
	v.ReviewedLoginID = nullInt(reviewedLogin)
	v.AssignedDate = nullTime(assignedDate)
	v.AssignedLoginID = nullInt(assignedLogin)
	v.ClaimedDate = nullTime(claimedDate)
	v.ClaimedLoginID = nullInt(claimedLogin)
	v.VerifiedDate = nullTime(verifiedDate)
	v.VerifiedLoginID = nullInt(verifiedLogin)
	v.ReviewNotes = reviewNotes.String
	if statusID.Valid {
		v.VerificationStatusID = models.VerificationStatus(statusID.Int64)
	} else {
		v.VerificationStatusID = models.StatusUnverified
	}
	v.Inactive = inactive.Bool
	v.InactiveTemporary = inactiveTemporary.Bool
	v.ConfirmedName = vName.Bool
	v.ConfirmedCategories = vCategories.Bool
	v.ConfirmedAddress = vAddr.Bool
	v.ConfirmedPhone = vPhone.Bool
	v.ConfirmedEmail = vEmail.Bool
	v.ConfirmedHours = vHours.Bool
	v.CreatedUser = strings.TrimSpace(createdUser)
	v.ModifiedUser = strings.TrimSpace(modifiedUser)
	v.SubmittedUser = strings.TrimSpace(submittedUser)
	v.ReviewedUser = strings.TrimSpace(reviewedUser)
	v.AssignedUser = strings.TrimSpace(assignedUser)
	v.ClaimedUser = strings.TrimSpace(claimedUser)
	v.Hours = []models.ScheduleEntry{}
	v.Categories = []models.Category{}
	return &v, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

func nullTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time.UTC()
	return &t
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	i := n.Int64
	return &i
}

// versionInsertColumns matches the order of versionArgs.
const versionInsertColumns = `
	id, version_id, name, address_1, address_2, city, state, zip, phone, email,
	latitude, longitude, website, notes, requirements, admin_notes,
	parent_organization, physical_access, items, services, description,
	covid_notes, category_notes, eligibility_notes, food_types, languages,
	facebook, twitter, pinterest, linkedin, instagram,
	admin_contact_name, admin_contact_phone, admin_contact_email,
	donation_contact_name, donation_contact_phone, donation_contact_email,
	donation_pickup, donation_accept_frozen, donation_accept_refrigerated,
	donation_accept_perishable, donation_schedule, donation_delivery_instructions,
	donation_notes, created_date, created_login_id, modified_date, modified_login_id,
	submitted_date, submitted_login_id, approved_date, rejected_date,
	reviewed_login_id, assigned_date, assigned_login_id, claimed_date, claimed_login_id,
	verified_date, verified_login_id,
	review_notes, verification_status_id, inactive, inactive_temporary,
	v_name, v_categories, v_address, v_phone, v_email, v_hours`

func versionArgs(id, versionID int64, v *models.StakeholderVersion) []any {
	status := v.VerificationStatusID
	if status == 0 {
		status = models.StatusUnverified
	}
	return []any{
		id, versionID, v.Name, v.Address1, v.Address2, v.City, v.State, v.Zip, v.Phone, v.Email,
		v.Latitude, v.Longitude, v.Website, v.Notes, v.Requirements, v.AdminNotes,
		v.ParentOrganization, v.PhysicalAccess, v.Items, v.Services, v.Description,
		v.CovidNotes, v.CategoryNotes, v.EligibilityNotes, v.FoodTypes, v.Languages,
		v.Facebook, v.Twitter, v.Pinterest, v.LinkedIn, v.Instagram,
		v.AdminContactName, v.AdminContactPhone, v.AdminContactEmail,
		v.DonationContactName, v.DonationContactPhone, v.DonationContactEmail,
		v.DonationPickup, v.DonationAcceptFrozen, v.DonationAcceptRefrigerated,
		v.DonationAcceptPerishable, v.DonationSchedule, v.DonationDeliveryInstructions,
		v.DonationNotes, v.CreatedDate, v.CreatedLoginID, v.ModifiedDate, v.ModifiedLoginID,
		v.SubmittedDate, v.SubmittedLoginID, v.ApprovedDate, v.RejectedDate,
		v.ReviewedLoginID, v.AssignedDate, v.AssignedLoginID, v.ClaimedDate, v.ClaimedLoginID,
		v.VerifiedDate, v.VerifiedLoginID,
		v.ReviewNotes, int64(status), v.Inactive, v.InactiveTemporary,
		v.ConfirmedName, v.ConfirmedCategories, v.ConfirmedAddress,
		v.ConfirmedPhone, v.ConfirmedEmail, v.ConfirmedHours,
	}
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

var insertVersionSQL = fmt.Sprintf(
	"INSERT INTO stakeholder_version (%s) VALUES (%s)",
	versionInsertColumns, placeholders(69),
)

// Create inserts version 1 of a new stakeholder together with its schedule
// and category links in a single transaction.
func (s *Postgres) Create(ctx context.Context, v *models.StakeholderVersion) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create stakeholder: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT nextval('stakeholder_id_seq')").Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate stakeholder id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertVersionSQL, versionArgs(id, 1, v)...); err != nil {
		return 0, fmt.Errorf("insert stakeholder version: %w", err)
	}
	if err := insertChildren(ctx, tx, id, 1, v); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create stakeholder: %w", err)
	}
	return id, nil
}

// CreateVersion appends the next version of an existing stakeholder. The
// creation audit fields are carried over from the previous version; children
// are replaced wholesale by the new version's rows.
func (s *Postgres) CreateVersion(ctx context.Context, id int64, v *models.StakeholderVersion) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin stakeholder update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		prevVersion  int64
		createdDate  sql.NullTime
		createdLogin sql.NullInt64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT version_id, created_date, created_login_id
		FROM stakeholder_version
		WHERE id = $1
		ORDER BY version_id DESC
		LIMIT 1
		FOR UPDATE`, id).Scan(&prevVersion, &createdDate, &createdLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load current stakeholder version: %w", err)
	}

	next := *v
	next.CreatedDate = nullTime(createdDate)
	next.CreatedLoginID = nullInt(createdLogin)
	versionID := prevVersion + 1

	if _, err := tx.ExecContext(ctx, insertVersionSQL, versionArgs(id, versionID, &next)...); err != nil {
		return 0, fmt.Errorf("insert stakeholder version: %w", err)
	}
	if err := insertChildren(ctx, tx, id, versionID, v); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit stakeholder update: %w", err)
	}
	return versionID, nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, id, versionID int64, v *models.StakeholderVersion) error {
	for _, h := range v.Hours {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stakeholder_schedule
				(stakeholder_id, version_id, week_of_month, day_of_week, open_time, close_time)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, versionID, h.WeekOfMonth, h.DayOfWeek, h.Open, h.Close)
		if err != nil {
			return fmt.Errorf("insert schedule entry: %w", err)
		}
	}
	for _, c := range v.Categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stakeholder_category (stakeholder_id, version_id, category_id)
			VALUES ($1, $2, $3)`,
			id, versionID, c.ID)
		if err != nil {
			return fmt.Errorf("insert category link: %w", err)
		}
	}
	return nil
}

// Current returns the latest version of one stakeholder with its children
// and denormalized login display names.
func (s *Postgres) Current(ctx context.Context, id int64) (*models.StakeholderVersion, error) {
	query := `SELECT ` + versionColumns + `
		FROM (SELECT * FROM stakeholder_version
			WHERE id = $1
			ORDER BY version_id DESC
			LIMIT 1) cur` + loginJoins

	v, err := scanVersion(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load stakeholder %d: %w", id, err)
	}
	if err := s.loadChildren(ctx, map[int64]*models.StakeholderVersion{id: v}); err != nil {
		return nil, err
	}
	return v, nil
}

// Search returns the current version of every stakeholder whose current
// version satisfies the filter. Results are ordered by name; distance
// ranking happens above the store.
func (s *Postgres) Search(ctx context.Context, f *models.SearchFilter) ([]*models.StakeholderVersion, error) {
	where, args := searchPredicate(f)
	query := `SELECT ` + versionColumns + `
		FROM ` + currentVersions + loginJoins + where + `
		ORDER BY lower(cur.name) ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search stakeholders: %w", err)
	}
	defer rows.Close()

	results := make([]*models.StakeholderVersion, 0)
	byID := make(map[int64]*models.StakeholderVersion)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stakeholder row: %w", err)
		}
		results = append(results, v)
		byID[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stakeholder rows: %w", err)
	}
	if err := s.loadChildren(ctx, byID); err != nil {
		return nil, err
	}
	return results, nil
}

// loadChildren attaches the schedule and category rows belonging to each
// version in byID. Child rows are keyed by (stakeholder_id, version_id) so
// only the rows of the exact version passed in are attached.
func (s *Postgres) loadChildren(ctx context.Context, byID map[int64]*models.StakeholderVersion) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT stakeholder_id, version_id, week_of_month, day_of_week, open_time, close_time
		FROM stakeholder_schedule
		WHERE stakeholder_id = ANY($1::bigint[])
		ORDER BY stakeholder_id, week_of_month,
			CASE day_of_week
				WHEN 'Mon' THEN 1 WHEN 'Tue' THEN 2 WHEN 'Wed' THEN 3
				WHEN 'Thu' THEN 4 WHEN 'Fri' THEN 5 WHEN 'Sat' THEN 6
				WHEN 'Sun' THEN 7 ELSE 8
			END,
			open_time`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id, versionID int64
			entry         models.ScheduleEntry
		)
		if err := rows.Scan(&id, &versionID, &entry.WeekOfMonth, &entry.DayOfWeek, &entry.Open, &entry.Close); err != nil {
			return fmt.Errorf("scan schedule row: %w", err)
		}
		if v, ok := byID[id]; ok && v.VersionID == versionID {
			v.Hours = append(v.Hours, entry)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate schedule rows: %w", err)
	}

	catRows, err := s.db.QueryContext(ctx, `
		SELECT sc.stakeholder_id, sc.version_id, c.id, c.name
		FROM stakeholder_category sc
		JOIN category c ON sc.category_id = c.id
		WHERE sc.stakeholder_id = ANY($1::bigint[])
		ORDER BY sc.stakeholder_id, c.name`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var (
			id, versionID int64
			cat           models.Category
		)
		if err := catRows.Scan(&id, &versionID, &cat.ID, &cat.Name); err != nil {
			return fmt.Errorf("scan category row: %w", err)
		}
		if v, ok := byID[id]; ok && v.VersionID == versionID {
			v.Categories = append(v.Categories, cat)
		}
	}
	if err := catRows.Err(); err != nil {
		return fmt.Errorf("iterate category rows: %w", err)
	}
	return nil
}

// Remove hard-deletes every version of a stakeholder and its children.
func (s *Postgres) Remove(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stakeholder delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM stakeholder_schedule WHERE stakeholder_id = $1", id); err != nil {
		return fmt.Errorf("delete schedules: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM stakeholder_category WHERE stakeholder_id = $1", id); err != nil {
		return fmt.Errorf("delete category links: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM stakeholder_version WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete stakeholder versions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete stakeholder versions: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stakeholder delete: %w", err)
	}
	return nil
}

// Assign marks the current version as assigned to assigneeID, clearing any
// prior submission and approval.
func (s *Postgres) Assign(ctx context.Context, id, assigneeID, actorID int64, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE stakeholder_version SET
			assigned_login_id = $2,
			assigned_date = $3,
			submitted_date = NULL,
			submitted_login_id = NULL,
			approved_date = NULL,
			reviewed_login_id = NULL,
			verification_status_id = $4,
			modified_login_id = $5,
			modified_date = $3
		WHERE id = $1 AND version_id = `+currentVersionOf,
		id, assigneeID, now, int64(models.StatusAssigned), actorID)
	if err != nil {
		return fmt.Errorf("assign stakeholder %d: %w", id, err)
	}
	return checkAffected(res, id)
}

// NeedsVerification sends the current version back to unverified, clearing
// assignment, submission, and approval. A non-empty message is appended to
// the review notes with a blank-line separator when notes already exist.
func (s *Postgres) NeedsVerification(ctx context.Context, id, actorID int64, message string, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE stakeholder_version SET
			assigned_login_id = NULL,
			assigned_date = NULL,
			submitted_date = NULL,
			submitted_login_id = NULL,
			approved_date = NULL,
			reviewed_login_id = NULL,
			verification_status_id = $4,
			modified_login_id = $2,
			modified_date = $3,
			review_notes = CASE
				WHEN $5 = '' THEN review_notes
				WHEN review_notes IS NULL OR length(review_notes) = 0 THEN $5
				ELSE review_notes || chr(10) || chr(10) || $5
			END
		WHERE id = $1 AND version_id = `+currentVersionOf,
		id, actorID, now, int64(models.StatusUnverified), message)
	if err != nil {
		return fmt.Errorf("needs verification stakeholder %d: %w", id, err)
	}
	return checkAffected(res, id)
}

// Claim sets or clears the claimed pair on the current version. Claiming is
// independent of assignment state.
func (s *Postgres) Claim(ctx context.Context, id, claimantID int64, setClaimed bool, actorID int64, now time.Time) error {
	var (
		res sql.Result
		err error
	)
	if setClaimed {
		res, err = s.db.ExecContext(ctx, `
			UPDATE stakeholder_version SET
				claimed_login_id = $2,
				claimed_date = $3,
				modified_login_id = $4,
				modified_date = $3
			WHERE id = $1 AND version_id = `+currentVersionOf,
			id, claimantID, now, actorID)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE stakeholder_version SET
				claimed_login_id = NULL,
				claimed_date = NULL,
				modified_login_id = $2,
				modified_date = $3
			WHERE id = $1 AND version_id = `+currentVersionOf,
			id, actorID, now)
	}
	if err != nil {
		return fmt.Errorf("claim stakeholder %d: %w", id, err)
	}
	return checkAffected(res, id)
}

// Verify toggles the verified confirmation pair on the current version.
// The assignment, submission, approval, and status fields are untouched; the
// confirmation is independent of where the record sits in the workflow.
func (s *Postgres) Verify(ctx context.Context, id int64, setVerified bool, actorID int64, now time.Time) error {
	var (
		res sql.Result
		err error
	)
	if setVerified {
		res, err = s.db.ExecContext(ctx, `
			UPDATE stakeholder_version SET
				verified_date = $3,
				verified_login_id = $2,
				modified_login_id = $2,
				modified_date = $3
			WHERE id = $1 AND version_id = `+currentVersionOf,
			id, actorID, now)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE stakeholder_version SET
				verified_date = NULL,
				verified_login_id = NULL,
				modified_login_id = $2,
				modified_date = $3
			WHERE id = $1 AND version_id = `+currentVersionOf,
			id, actorID, now)
	}
	if err != nil {
		return fmt.Errorf("verify stakeholder %d: %w", id, err)
	}
	return checkAffected(res, id)
}

func checkAffected(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stakeholder %d: %w", id, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Categories lists the category reference table.
func (s *Postgres) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM category ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}
