// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch the network or the filesystem directly; every remote
// call goes through driven.Transport and every setting through
// driven.ConfigStore.
package services
