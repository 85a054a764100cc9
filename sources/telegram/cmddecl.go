package telegram

// SalesCmd - operator report over the process-lifetime purchase tally.
type SalesCmd struct {
	Summary struct {
	} `cmd:"" help:"Show total purchases applied since process start"`

	User struct {
		ID int64 `arg:"" help:"Telegram user id"`
	} `cmd:"" help:"Show purchases applied for one user since process start"`
}
