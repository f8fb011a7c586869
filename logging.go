package reql

import "github.com/sirupsen/logrus"

// Log is the package-level logger used by the connection machinery for
// protocol-level diagnostics (discarded tokens, pump teardown). Callers can reconfigure it (level, output, formatter)
// exactly like any logrus.Logger.
var Log = logrus.New()

func init() {
	Log.SetLevel(logrus.WarnLevel)
}
