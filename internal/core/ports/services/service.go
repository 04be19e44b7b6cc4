package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and is
// wired once at startup, then handed to the handlers.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Mapping        MappingSvcFacade
	Journal        JournalSvcFacade
	Posting        PostingSvc
	Reconciliation ReconciliationSvc
	Payment        PaymentSvcFacade
	Expense        ExpenseSvcFacade
	Payroll        PayrollSvcFacade
	Asset          AssetSvcFacade
	Banking        BankingSvcFacade
	Reporting      ReportingSvc
}
