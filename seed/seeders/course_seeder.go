package seeders

import (
	"github.com/sirupsen/logrus"
	"github.com/startinfo/academy_api/model"
	"github.com/startinfo/academy_api/services/repositories"
	"github.com/startinfo/academy_api/shared"
	"gorm.io/gorm"
)

// CourseSeeder handles seeding the Arduino catalog
type CourseSeeder struct {
	courses *repositories.CourseRepository
}

// NewCourseSeeder creates a new course seeder
func NewCourseSeeder(db *gorm.DB) *CourseSeeder {
	return &CourseSeeder{courses: repositories.NewCourseRepository(db)}
}

// SeedCourses creates every catalog course that is not stored yet. Lessons,
// resources and simulators are created along with their course.
func (s *CourseSeeder) SeedCourses() error {
	courses, err := s.getArduinoCourses()
	if err != nil {
		return err
	}

	for i := range courses {
		course := &courses[i]

		exists, err := s.courses.CourseExists(course.ID)
		if err != nil {
			logrus.WithError(err).WithField("course", course.Title).Error("Error checking course")
			return err
		}
		if exists {
			logrus.WithField("course", course.Title).Info("Course already exists, skipping")
			continue
		}

		if _, err := s.courses.CreateCourse(course); err != nil {
			logrus.WithError(err).WithField("course", course.Title).Error("Error creating course")
			return err
		}
		logrus.WithFields(logrus.Fields{
			"course":  course.Title,
			"lessons": len(course.Lessons),
		}).Info("Created course")
	}

	logrus.Info("Course seeding completed successfully")
	return nil
}

func (s *CourseSeeder) getArduinoCourses() ([]model.Course, error) {
	// the interrupt lesson stores its simulator files as JSON, the others
	// keep the raw sketch in Config
	interruptConfig, err := shared.JSONMarshal(map[string]interface{}{
		"files": map[string]string{
			"sketch.ino": interruptSketch,
		},
	})
	if err != nil {
		return nil, err
	}

	return []model.Course{
		{
			ID:          "course_arduino_intro",
			Title:       "Introduction to Arduino",
			Description: "Learn the basics of Arduino programming and electronics through hands-on projects and interactive simulations.",
			Level:       shared.LevelBeginner,
			Duration:    240,
			Thumbnail:   "/images/courses/arduino-intro.jpg",
			Published:   true,
			Lessons: []model.Lesson{
				{
					Title:       "Getting Started with Arduino",
					Description: "Learn about the Arduino platform and setup your development environment.",
					Content:     "# Getting Started with Arduino\n\nIn this lesson, you will learn the basics of Arduino...",
					Duration:    30,
					Order:       1,
					IsPublished: true,
					Resources: []model.Resource{
						{Title: "Arduino IDE Download", URL: "https://www.arduino.cc/en/software", Type: shared.ResourceTypeLink},
					},
					Simulator: &model.Simulator{
						Config:     blinkSketch,
						Components: blinkDiagram,
					},
				},
				{
					Title:       "Digital Input/Output",
					Description: "Learn how to control LEDs and read button inputs.",
					Content:     "# Digital Input/Output\n\nIn this lesson, you will learn about digital inputs and outputs, using LEDs and buttons as examples.",
					Duration:    45,
					Order:       2,
					IsPublished: true,
					Resources: []model.Resource{
						{Title: "Digital I/O Guide", URL: "https://www.arduino.cc/en/Tutorial/DigitalPins", Type: shared.ResourceTypeLink},
					},
					Simulator: &model.Simulator{
						Config:     buttonSketch,
						Components: buttonDiagram,
					},
				},
			},
		},
		{
			ID:          "course_arduino_advanced",
			Title:       "Advanced Arduino Programming",
			Description: "Master advanced Arduino concepts including interrupts, timers, and sensor integration.",
			Level:       shared.LevelAdvanced,
			Duration:    360,
			Thumbnail:   "/images/courses/arduino-advanced.jpg",
			Published:   true,
			Lessons: []model.Lesson{
				{
					Title:       "Advanced Input/Output Techniques",
					Description: "Learn about interrupts, timers, and advanced I/O methods.",
					Content:     "# Advanced I/O Techniques\n\nIn this lesson, you will learn about hardware and software interrupts...",
					Duration:    45,
					Order:       1,
					IsPublished: true,
					Resources: []model.Resource{
						{Title: "Arduino Interrupts Guide", URL: "https://www.arduino.cc/en/Reference/AttachInterrupt", Type: shared.ResourceTypeLink},
					},
					Simulator: &model.Simulator{
						Config:     string(interruptConfig),
						Components: buttonDiagram,
					},
				},
			},
		},
		{
			ID:          "course_iot_arduino",
			Title:       "Internet of Things with Arduino",
			Description: "Learn to build connected devices and IoT applications using Arduino.",
			Level:       shared.LevelIntermediate,
			Duration:    480,
			Thumbnail:   "/images/courses/iot-arduino.jpg",
			Published:   true,
			Lessons: []model.Lesson{
				{
					Title:       "Introduction to IoT",
					Description: "Learn the fundamentals of IoT and connected devices.",
					Content:     "# Introduction to IoT\n\nIn this lesson, you will learn about IoT fundamentals...",
					Duration:    45,
					Order:       1,
					IsPublished: true,
					Resources: []model.Resource{
						{Title: "IoT Fundamentals Guide", URL: "https://www.arduino.cc/en/Guide/IoT", Type: shared.ResourceTypeLink},
					},
					Simulator: &model.Simulator{
						Config:     mqttSketch,
						Components: wifiDiagram,
					},
				},
			},
		},
	}, nil
}

const blinkSketch = `// Pin definitions
const int ledPin = 13;

void setup() {
  // Initialize digital pin as output
  pinMode(ledPin, OUTPUT);
}

void loop() {
  digitalWrite(ledPin, HIGH);  // Turn LED on
  delay(1000);                 // Wait 1 second
  digitalWrite(ledPin, LOW);   // Turn LED off
  delay(1000);                 // Wait 1 second
}`

const buttonSketch = `const int buttonPin = 2;  // Pin connected to the button
const int ledPin = 13;    // Pin connected to the LED

void setup() {
  pinMode(buttonPin, INPUT_PULLUP);  // Set button pin as input with internal pullup
  pinMode(ledPin, OUTPUT);           // Set LED pin as output
}

void loop() {
  int buttonState = digitalRead(buttonPin);

  // Button is active LOW due to pullup resistor
  if (buttonState == LOW) {
    digitalWrite(ledPin, HIGH);
  } else {
    digitalWrite(ledPin, LOW);
  }
}`

const interruptSketch = `const int buttonPin = 2;    // Pin for interrupt
const int ledPin = 13;      // LED pin
volatile bool ledState = false;

void setup() {
  pinMode(buttonPin, INPUT_PULLUP);
  pinMode(ledPin, OUTPUT);
  attachInterrupt(digitalPinToInterrupt(buttonPin), handleInterrupt, FALLING);
}

void loop() {
  digitalWrite(ledPin, ledState);
}

void handleInterrupt() {
  ledState = !ledState;
}`

const mqttSketch = `#include <WiFi.h>
#include <PubSubClient.h>

const char* ssid = "YourNetwork";
const char* password = "YourPassword";

const char* mqtt_server = "test.mosquitto.org";
const int mqtt_port = 1883;

const int ledPin = 13;

WiFiClient espClient;
PubSubClient client(espClient);

void setup() {
  pinMode(ledPin, OUTPUT);
  Serial.begin(115200);

  WiFi.begin(ssid, password);
  while (WiFi.status() != WL_CONNECTED) {
    delay(500);
  }

  client.setServer(mqtt_server, mqtt_port);
  client.setCallback(callback);
}

void loop() {
  if (!client.connected()) {
    reconnect();
  }
  client.loop();

  static unsigned long lastMsg = 0;
  if (millis() - lastMsg > 5000) {
    lastMsg = millis();
    int temperature = random(20, 30);
    String msg = "{\"temp\":" + String(temperature) + "}";
    client.publish("arduino/sensors", msg.c_str());
  }
}

void callback(char* topic, byte* payload, unsigned int length) {
  String message = "";
  for (int i = 0; i < length; i++) {
    message += (char)payload[i];
  }
  if (message == "ON") {
    digitalWrite(ledPin, HIGH);
  } else if (message == "OFF") {
    digitalWrite(ledPin, LOW);
  }
}

void reconnect() {
  while (!client.connected()) {
    if (client.connect("ArduinoClient")) {
      client.subscribe("arduino/control");
    } else {
      delay(5000);
    }
  }
}`

const blinkDiagram = `{
  "version": 1,
  "author": "StartInfo",
  "editor": "wokwi",
  "parts": [
    {"type": "wokwi-arduino-uno", "id": "uno", "top": 20, "left": 20},
    {"type": "wokwi-led", "id": "led1", "top": 100, "left": 200, "attrs": {"color": "red"}},
    {"type": "wokwi-resistor", "id": "r1", "top": 100, "left": 150, "attrs": {"resistance": "220"}}
  ],
  "connections": [
    ["uno:13", "r1:1"],
    ["r1:2", "led1:A"],
    ["led1:C", "uno:GND"]
  ]
}`

const buttonDiagram = `{
  "version": 1,
  "author": "StartInfo",
  "editor": "wokwi",
  "parts": [
    {"type": "wokwi-arduino-uno", "id": "uno", "top": 20, "left": 20},
    {"type": "wokwi-led", "id": "led1", "top": 100, "left": 200, "attrs": {"color": "red"}},
    {"type": "wokwi-resistor", "id": "r1", "top": 100, "left": 150, "attrs": {"resistance": "220"}},
    {"type": "wokwi-pushbutton", "id": "btn1", "top": 150, "left": 100}
  ],
  "connections": [
    ["uno:13", "r1:1"],
    ["r1:2", "led1:A"],
    ["led1:C", "uno:GND"],
    ["btn1:1.l", "uno:2"],
    ["btn1:2.l", "uno:GND"]
  ]
}`

const wifiDiagram = `{
  "version": 1,
  "author": "StartInfo",
  "editor": "wokwi",
  "parts": [
    {"type": "wokwi-arduino-uno", "id": "uno", "top": 20, "left": 20},
    {"type": "wokwi-led", "id": "led1", "top": 100, "left": 200, "attrs": {"color": "red"}},
    {"type": "wokwi-resistor", "id": "r1", "top": 100, "left": 150, "attrs": {"resistance": "220"}},
    {"type": "wokwi-esp8266", "id": "wifi", "top": 150, "left": 20}
  ],
  "connections": [
    ["uno:13", "r1:1"],
    ["r1:2", "led1:A"],
    ["led1:C", "uno:GND"],
    ["uno:TX", "wifi:RX"],
    ["uno:RX", "wifi:TX"],
    ["uno:3.3V", "wifi:VCC"],
    ["uno:GND", "wifi:GND"]
  ]
}`
