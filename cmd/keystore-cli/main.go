// Command keystore-cli decrypts and encrypts ERC-2335 validator keystores,
// mirroring the decrypt/encrypt verbs of tools/keystores in the source
// repository, backed here by a real crypto/keystore.Encrypt instead of a
// stub.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/mahmudsudo/lambda-ethereum-consensus/crypto/keystore"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	keystoreFlag = &cli.StringFlag{
		Name:     "keystore",
		Usage:    "path to a single keystore JSON file",
		Required: true,
	}
	keystoreDirFlag = &cli.StringFlag{
		Name:  "keystore-dir",
		Usage: "directory of keystore JSON files, paired by name with --password-dir",
	}
	passwordDirFlag = &cli.StringFlag{
		Name:  "password-dir",
		Usage: "directory of <name>.txt password files matching --keystore-dir",
	}
	passwordFileFlag = &cli.StringFlag{
		Name:  "password-file",
		Usage: "file holding the password for --keystore",
	}
	privkeyFlag = &cli.StringFlag{
		Name:     "privkey",
		Usage:    "hex-encoded 32-byte secret key to encrypt",
		Required: true,
	}
	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "output path for the encrypted keystore JSON",
	}
)

func main() {
	app := &cli.App{
		Name:  "keystore-cli",
		Usage: "decrypt and encrypt ERC-2335 validator keystores",
		Commands: []*cli.Command{
			{
				Name:  "decrypt",
				Usage: "decrypt a single keystore file",
				Flags: []cli.Flag{keystoreFlag, passwordFileFlag},
				Action: func(c *cli.Context) error {
					return decrypt(c.String(keystoreFlag.Name), c.String(passwordFileFlag.Name))
				},
			},
			{
				Name:  "scan",
				Usage: "decrypt every keystore in --keystore-dir, skipping failures",
				Flags: []cli.Flag{keystoreDirFlag, passwordDirFlag},
				Action: func(c *cli.Context) error {
					return scan(c.String(keystoreDirFlag.Name), c.String(passwordDirFlag.Name))
				},
			},
			{
				Name:  "encrypt",
				Usage: "encrypt a hex-encoded secret key into a keystore JSON file",
				Flags: []cli.Flag{privkeyFlag, passwordFileFlag, outFlag},
				Action: func(c *cli.Context) error {
					return encrypt(c.String(privkeyFlag.Name), c.String(passwordFileFlag.Name), c.String(outFlag.Name))
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("keystore-cli failed")
	}
}

func decrypt(keystorePath, passwordFile string) error {
	jsonBytes, err := os.ReadFile(keystorePath)
	if err != nil {
		return err
	}
	password, err := os.ReadFile(passwordFile)
	if err != nil {
		return err
	}
	record, err := keystore.Decode(jsonBytes, password)
	if err != nil {
		return err
	}
	defer record.Zero()
	fmt.Printf("pubkey:  %#x\n", record.Pubkey)
	fmt.Printf("privkey: %#x\n", record.PrivateKey())
	return nil
}

func scan(keystoreDir, passwordDir string) error {
	records, err := keystore.ScanDirectory(keystoreDir, passwordDir)
	if err != nil {
		return err
	}
	for _, record := range records {
		fmt.Printf("%s: pubkey %#x\n", record.UUID, record.Pubkey)
		record.Zero()
	}
	fmt.Printf("decoded %d of the keystores in %s\n", len(records), keystoreDir)
	return nil
}

func encrypt(privkeyHex, passwordFile, out string) error {
	privkey, err := hex.DecodeString(trimHexPrefix(privkeyHex))
	if err != nil {
		return err
	}
	password, err := os.ReadFile(passwordFile)
	if err != nil {
		return err
	}
	doc, err := keystore.Encrypt(privkey, password, keystore.DefaultEncryptOpts())
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println(string(doc))
		return nil
	}
	return os.WriteFile(out, doc, 0o600)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
