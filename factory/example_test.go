package factory_test

import (
	"errors"
	"fmt"
	"time"

	"ctor-factory/config"
	"ctor-factory/factory"
	"ctor-factory/schema"
	"ctor-factory/signature"
)

type Mailer struct {
	host    string
	port    int
	timeout time.Duration
}

func NewMailer(host string, port int, timeout time.Duration) (*Mailer, error) {
	if host == "" {
		return nil, errors.New("empty host")
	}

	return &Mailer{host: host, port: port, timeout: timeout}, nil
}

func Example() {
	f, err := factory.New(signature.Func(NewMailer,
		signature.Param("host"),
		signature.Param("port", signature.Default(25)),
		signature.Param("timeout", signature.Default(10*time.Second)),
	))
	if err != nil {
		panic(err)
	}

	fmt.Println(f.Options(), f.RequiredOptions())

	m, err := factory.BuildAs[*Mailer](f, map[string]any{"host": "smtp.local"})
	if err != nil {
		panic(err)
	}

	fmt.Println(m.host, m.port, m.timeout)

	_, err = f.Build(map[string]any{"host": "smtp.local", "prot": 587})
	fmt.Println(errors.Is(err, schema.ErrUnrecognizedOption))

	_, err = f.Build(map[string]any{"host": ""})
	fmt.Println(err)
	// Output:
	// [host port timeout] [host]
	// smtp.local 25 10s
	// true
	// construct ctor-factory/factory_test.Mailer: empty host
}

func ExampleFactory_BuildSource() {
	type Limits struct {
		Burst  int           `default:"10"`
		Window time.Duration `default:"1m"`
	}

	f, err := factory.New(signature.Struct[Limits]())
	if err != nil {
		panic(err)
	}

	v, err := f.BuildSource(config.FormatYAML, []byte("window: 30s\n"))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%+v\n", *v.(*Limits))
	// Output:
	// {Burst:10 Window:30s}
}
