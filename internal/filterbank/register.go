// register.go - Filter bank factory registration.
package filterbank

import (
	aac "github.com/llehouerou/go-aac"
)

// init registers the filter bank factory with the aac package.
// The dependency runs one way: filterbank imports aac to register here, and
// aac never imports filterbank (doing so would now form the cycle
// aac -> filterbank -> aac).
//
// The factory pattern allows aac.Decoder to create filter banks without
// directly importing this package.
func init() {
	aac.RegisterFilterBankFactory(func(frameLength uint16) any {
		return NewFilterBank(frameLength)
	})
}
