package models

// Attribute names used to look records up by reference.
const (
	FieldBankAccountID = "bank_account_id"
	FieldGoalID        = "goal_id"
	FieldCheckID       = "check_id"
	FieldLoanID        = "loan_id"
	FieldDebtID        = "debt_id"
	FieldLoanPaymentID = "loan_payment_id"
	FieldDebtPaymentID = "debt_payment_id"
)
