package models

// Tab identifies a view of the session
type Tab string

const (
	TabDeployment   Tab = "deployment"
	TabInteraction  Tab = "interaction"
	TabTransactions Tab = "transactions"
)

// Tabs lists the session views in display order
var Tabs = []Tab{TabDeployment, TabInteraction, TabTransactions}
