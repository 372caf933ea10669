package report

import "time"

type (
	// OverallStats is derived per request from one aggregate query; it is
	// never persisted.
	OverallStats struct {
		TotalVolunteers     int `db:"total_volunteers" json:"total_volunteers"`
		PendingVolunteers   int `db:"pending_volunteers" json:"pending_volunteers"`
		ApprovedVolunteers  int `db:"approved_volunteers" json:"approved_volunteers"`
		RejectedVolunteers  int `db:"rejected_volunteers" json:"rejected_volunteers"`
		CertifiedVolunteers int `db:"certified_volunteers" json:"certified_volunteers"`

		BloodDonations         int `db:"blood_donations" json:"blood_donations"`
		ApprovedBloodDonations int `db:"approved_blood_donations" json:"approved_blood_donations"`
		TreeTaggings           int `db:"tree_taggings" json:"tree_taggings"`
		ApprovedTreeTaggings   int `db:"approved_tree_taggings" json:"approved_tree_taggings"`
	}

	// UnitReport is one row of the per-unit GROUP BY: volunteer counts per
	// status plus the unit's approved activity contributions.
	UnitReport struct {
		UnitID      string `db:"unit_id" json:"unit_id"`
		UnitName    string `db:"unit_name" json:"unit_name"`
		Total       int    `db:"total" json:"total"`
		Pending     int    `db:"pending" json:"pending"`
		Approved    int    `db:"approved" json:"approved"`
		Rejected    int    `db:"rejected" json:"rejected"`
		Certified   int    `db:"certified" json:"certified"`
		BloodUnits  int    `db:"blood_units" json:"blood_units"`
		TreesTagged int    `db:"trees_tagged" json:"trees_tagged"`
	}

	MonthlyTrend struct {
		Month         time.Time `db:"month" json:"month"`
		Registrations int       `db:"registrations" json:"registrations"`
		Approvals     int       `db:"approvals" json:"approvals"`
	}
)
