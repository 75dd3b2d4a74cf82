// @title						Kickback on Stacks API
// @version					1.0
// @description				Wallet sessions, sBTC onboarding and event staking on the Stacks Kickback contracts.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
package main

func main() {
	Execute()
}
