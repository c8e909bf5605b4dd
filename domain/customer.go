package domain

type Customer struct {
	ID          int64        `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	PhoneNumber string       `db:"phone_number" json:"phone_number"`
	Email       string       `db:"email" json:"email"`
	Medicines   MedicineList `db:"medicines" json:"medicines"`
}
