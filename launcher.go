package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/agent/api"
)

// адрес, на котором сервер слушает с configs/server.yaml
const serverURL = "https://127.0.0.1:3000"

func main() {
	fmt.Println("Запуск Stocks API...")

	clientName := "stocksctl"
	if runtime.GOOS == "windows" {
		clientName = "stocksctl.exe"
	}
	// запускаем сервер на фоне
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	// ждём, пока сервер поднимет БД и начнёт отвечать на /health
	client := api.NewClient(serverURL, true)
	ready := false
	for i := 0; i < 30; i++ {
		if err := client.GetJSON("/health", nil, ""); err == nil {
			ready = true
			break
		}
		time.Sleep(time.Second)
	}
	if !ready {
		fmt.Println("Сервер не ответил на /health, смотри логи выше")
	}

	// собираем клиента
	if _, err := os.Stat(clientName); os.IsNotExist(err) {
		fmt.Println("Сборка клиента...")
		build := exec.Command("go", "build", "-o", clientName, "./cmd/stocksctl")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			fmt.Printf("Ошибка сборки клиента: %v\n", err)
		}
	}

	fmt.Println("Сервер запущен на", serverURL)
	// самоподписанный сертификат в dev, поэтому --insecure
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: .\\stocksctl.exe --insecure symbols")
	} else {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: ./stocksctl --insecure symbols")
	}

	server.Wait()
}
