package certs

import "fmt"

// SetupReport is an operator-facing diagnostic. It never signals failure
// through an error: every problem comes with a remediation step.
type SetupReport struct {
	Source   string
	Ready    bool
	Problems []string
	Steps    []string
}

// CheckSetup loads and structurally validates the bundle from the given
// source and turns every failure into an actionable remediation step.
func CheckSetup(src Source) SetupReport {
	rep := SetupReport{Source: src.Describe()}
	b, err := src.Load()
	if err != nil {
		rep.Problems = append(rep.Problems, err.Error())
		if _, ok := src.(EnvSource); ok {
			rep.Steps = append(rep.Steps,
				fmt.Sprintf("export %s, %s and %s with the full PEM text of the pass certificate, private key and Apple WWDR certificate", EnvCert, EnvKey, EnvWWDR),
				fmt.Sprintf("if the key is passphrase-protected, also export %s", EnvKeyPassphrase),
			)
		} else {
			rep.Steps = append(rep.Steps,
				"export the pass certificate from Keychain Access as a .p12, then run: openssl pkcs12 -in pass.p12 -clcerts -nokeys -out pass.pem",
				"extract the key: openssl pkcs12 -in pass.p12 -nocerts -out key.pem",
				"download the Apple WWDR intermediate from https://www.apple.com/certificateauthority/ and convert: openssl x509 -inform der -in AppleWWDRCA.cer -out wwdr.pem",
				"place the three files at the configured PASS_CERT_PATH / PASS_KEY_PATH / PASS_WWDR_PATH locations",
			)
		}
		return rep
	}
	v := Validate(b)
	rep.Problems = append(rep.Problems, v.Errors...)
	for _, w := range v.Warnings {
		rep.Problems = append(rep.Problems, "warning: "+w)
	}
	if len(v.Errors) > 0 {
		rep.Steps = append(rep.Steps,
			"re-export the artifacts as PEM; each file must contain its -----BEGIN ...----- marker",
		)
	}
	if len(v.Warnings) > 0 {
		rep.Steps = append(rep.Steps,
			fmt.Sprintf("set %s (or the file-source passphrase) so the encrypted key can be opened", EnvKeyPassphrase),
		)
	}
	rep.Ready = v.Valid
	return rep
}
