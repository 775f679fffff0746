// Package config loads the tool configuration for the webcell CLI.
//
// The configuration lives in webcell.yaml (or webcell.json) in the project
// directory. Missing fields are filled from Default.
//
// # Configuration File Structure
//
//	preview:
//	  host: localhost
//	  port: 3000
//	render:
//	  pretty: true
//	  lang: en
//	  title: Preview
//	publish:
//	  bucket: my-site
//	  region: eu-west-1
//	  prefix: pages/
//	metrics:
//	  namespace: webcell
//	log:
//	  level: debug
//
// # Usage
//
//	cfg, err := config.Load(afero.NewOsFs(), ".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Preview:", cfg.PreviewAddress())
package config
