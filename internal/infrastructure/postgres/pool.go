package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/devis-factures-api/pkg/config"
)

// NewPool abre el pool de la base de facturación y verifica la conexión con un ping.
// DATABASE_URL tiene prioridad sobre DB_HOST, DB_PORT, etc.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := buildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// buildPoolConfig traduce DBConfig a la configuración de pgxpool sin abrir conexiones.
func buildPoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsnCfg := cfg
		if cfg.PreferIPv4 {
			if ipv4, err := resolveIPv4(cfg.Host); err == nil {
				dsnCfg.Host = ipv4
			}
		}
		dsn = dsnCfg.DSN()
	} else if cfg.PreferIPv4 {
		dsn = databaseURLWithIPv4(dsn)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	if cfg.PreferIPv4 {
		poolConfig.ConnConfig.DialFunc = dialIPv4
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = time.Minute

	// NUMERIC(14,2) <-> decimal.Decimal para importes de devis, facturas y pagos.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}

// dialIPv4 conecta por tcp4 cuando el host tiene registro A; si no, usa la red pedida.
func dialIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ipv4, err := resolveIPv4(host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ipv4, port))
}

// resolveIPv4 devuelve la primera IPv4 del host; si el resolver del sistema falla,
// reintenta contra 8.8.8.8.
func resolveIPv4(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host, nil
		}
		return "", fmt.Errorf("es IPv6")
	}
	if ip, err := resolveIPv4WithResolver(host, nil); err == nil {
		return ip, nil
	}
	resolver := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{}
			return d.DialContext(ctx, "udp", "8.8.8.8:53")
		},
	}
	return resolveIPv4WithResolver(host, resolver)
}

func resolveIPv4WithResolver(host string, r *net.Resolver) (string, error) {
	var ips []net.IP
	var err error
	if r != nil {
		ips, err = r.LookupIP(context.Background(), "ip4", host)
	} else {
		ips, err = net.LookupIP(host)
	}
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip.String(), nil
		}
	}
	return "", fmt.Errorf("no hay IPv4")
}

// databaseURLWithIPv4 sustituye el host de DATABASE_URL por su IPv4; sin IPv4 devuelve la URL intacta.
func databaseURLWithIPv4(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL
	}
	hostname := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ipv4, err := resolveIPv4(hostname)
	if err != nil {
		return databaseURL
	}
	u.Host = net.JoinHostPort(ipv4, port)
	return u.String()
}
