package known

const (
	// DimensionVMName is the Cloud Insight dimension that identifies a server.
	DimensionVMName = "vm_name"
	// ProductServerVPC is the Cloud Insight product a server metric belongs to.
	ProductServerVPC = "System/Server(VPC)"
)

const (
	DefaultInterval    = "Min5"
	DefaultAggregation = "AVG"
	DefaultOutputDir   = "output"
	DefaultWindowDays  = 7
	DefaultPeriodDays  = 7
)

const (
	// DateLayout is the compact date format accepted on the command line and used in file names.
	DateLayout = "20060102"
	// DisplayDateLayout is used in chart and report titles.
	DisplayDateLayout = "2006.01.02"
	// TimestampLayout is used for generation times in reports and summaries.
	TimestampLayout = "2006-01-02 15:04:05"
)

const (
	SummaryFileName = "summary.txt"
	PercentUnit     = "%"
)
