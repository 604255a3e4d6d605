package middleware

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// BannerInfo lo que el banner muestra del entorno
type BannerInfo struct {
	Port    string
	Driver  string
	Redis   bool
	Duenos  []string
	CronCer string
}

// ServerInfo muestra información del servidor al iniciar
func ServerInfo(info BannerInfo, logger *zap.Logger) {
	hostname, _ := os.Hostname()
	goVersion := runtime.Version()
	numCPU := runtime.NumCPU()
	startTime := time.Now().Format("2006-01-02 15:04:05")
	base := "http://localhost:" + info.Port

	cache := "L1 en memoria"
	if info.Redis {
		cache = "L1 en memoria + Redis"
	}

	fmt.Println("")
	fmt.Println("🐄 " + boldColor + "Don José API" + resetColor)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("📅 Started at: " + startTime)
	fmt.Println("🌐 Server URL: " + cyanColor + base + resetColor)
	fmt.Println("💻 Hostname: " + hostname)
	fmt.Println("🔧 Go Version: " + goVersion)
	fmt.Println("⚡ CPU Cores: " + fmt.Sprintf("%d", numCPU))
	fmt.Println("")
	fmt.Println("📊 " + boldColor + "Endpoints principales:" + resetColor)
	fmt.Println("   GET  " + greenColor + "/api/dashboard" + resetColor + "        - Dashboard")
	fmt.Println("   GET  " + greenColor + "/api/stock" + resetColor + "            - Stock por tipo y dueño")
	fmt.Println("   POST " + blueColor + "/api/nacimientos" + resetColor + "      - Registrar nacimiento")
	fmt.Println("   POST " + blueColor + "/api/cereales/ventas" + resetColor + "  - Registrar venta de cereal")
	fmt.Println("   GET  " + greenColor + "/api/lotes" + resetColor + "            - Lotes del campo")
	fmt.Println("")
	fmt.Println("🔍 " + boldColor + "Monitoring:" + resetColor)
	fmt.Println("   📈 Health Check: " + cyanColor + base + "/api/health" + resetColor)
	fmt.Println("   📉 Prometheus:   " + cyanColor + base + "/metrics" + resetColor)
	fmt.Println("")
	fmt.Println("⚙️  " + boldColor + "Environment:" + resetColor)
	fmt.Println("   🗄️  Store: " + info.Driver)
	fmt.Println("   🗃️  Cache: " + cache)
	fmt.Println("   🌾 Cron cereal: " + info.CronCer)
	fmt.Println("   📝 Logging: Structured (Zap)")
	fmt.Println("")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("✨ " + boldColor + "Server is ready to handle requests!" + resetColor)
	fmt.Println("")

	logger.Info("Server started successfully",
		zap.String("port", info.Port),
		zap.String("hostname", hostname),
		zap.String("go_version", goVersion),
		zap.Int("cpu_cores", numCPU),
		zap.String("store_driver", info.Driver),
		zap.Strings("duenos", info.Duenos),
		zap.String("start_time", startTime),
	)
}
