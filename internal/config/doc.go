// Package config provides configuration parsing for hotweb projects.
//
// The configuration is stored in hotweb.json or hotweb.yaml at the project
// root. This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "dev": {
//	    "port": 8080,
//	    "host": "localhost",
//	    "openBrowser": true,
//	    "hotReload": true,
//	    "watch": ["public"],
//	    "ignore": ["*.map"],
//	    "interval": "100ms"
//	  },
//	  "site": {
//	    "container": "app",
//	    "pagePath": "/"
//	  },
//	  "static": {
//	    "dir": "public"
//	  },
//	  "publish": {
//	    "output": "dist",
//	    "bucket": "my-site",
//	    "prefix": "www/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// The same keys are accepted in YAML.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Serving on", cfg.DevURL())
package config
